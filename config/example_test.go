// SPDX-License-Identifier: MIT
package config_test

import (
	"fmt"

	"github.com/katalvlaran/plantqc/config"
)

// ExampleDefault shows the profile Load starts from.
func ExampleDefault() {
	p := config.Default()
	fmt.Println(p.Impute.Mode, p.Impute.Method, p.Flags.Cluster.Clusters)
	// Output:
	// sequential linear 13
}
