// SPDX-License-Identifier: MIT
package impute_test

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/plantqc/frame"
	"github.com/katalvlaran/plantqc/impute"
)

// ExampleData fills a gap in one turbine from its neighbor.
func ExampleData() {
	target := []float64{1, math.NaN(), 5, 7}
	neighbor := []float64{0, 1, 2, 3}
	filled, _ := impute.Data(target, neighbor, 1)
	fmt.Printf("%.1f\n", filled)
	// Output:
	// [1.0 3.0 5.0 7.0]
}

// ExampleAllAssets fills every turbine from its best-correlated peers.
func ExampleAllAssets() {
	nan := math.NaN()
	f, _ := frame.New(nil,
		frame.Series{Name: "power_T1", Values: []float64{100, 200, nan, 400}},
		frame.Series{Name: "power_T2", Values: []float64{210, 410, 610, 810}},
	)
	cols, _ := frame.ParseAssetColumns("power", f.Columns())

	res, _ := impute.AllAssets(context.Background(), f, cols, frame.AssetColumns{},
		impute.WithMode(impute.Pool), impute.WithWorkers(2))
	v, _ := res.Frame.Column("power_T1")
	fmt.Printf("%.0f\n", v)
	for _, r := range res.Reports {
		fmt.Println(r.Asset, r.Reason, r.Fits)
	}
	// Output:
	// [100 200 300 400]
	// T1 filled 1
	// T2 complete 0
}
