// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/cdotrus/orbit/cmd/orbit"

func main() {
	cmd.Execute()
}
