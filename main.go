// The as-plugins-cli is a tool for configuring Assistant Skills
// platform credentials and installing the matching plugins.
package main

import "github.com/grandcamel/as-plugins-cli/cmd"

func main() {
	cmd.Run()
}
