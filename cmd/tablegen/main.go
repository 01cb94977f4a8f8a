// Command tablegen renders table definitions to HTML and derives column
// definitions from OpenAPI documents.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(surveyPicker).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tablegen: %v\n", err)
		os.Exit(1)
	}
}
