// Command typegen emits TypeScript interfaces for the contactd API types,
// so a web UI consuming the API can stay in sync with the Go definitions.
//
// Usage:
//
//	go run ./tools/typegen > ui/src/api/types.ts
package main

import (
	"fmt"
	"os"

	"github.com/coder/guts"
	"github.com/coder/guts/config"
)

// generatePackages are the packages whose exported types make up the wire
// contract of the API.
var generatePackages = []string{
	"github.com/contactkit/contactd/internal/api",
	"github.com/contactkit/contactd/internal/query",
	"github.com/contactkit/contactd/internal/contact",
}

func main() {
	golang, err := guts.NewGolangParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "typegen: failed to create parser: %v\n", err)
		os.Exit(1)
	}

	for _, pkg := range generatePackages {
		if err := golang.IncludeGenerate(pkg); err != nil {
			fmt.Fprintf(os.Stderr, "typegen: failed to include %s: %v\n", pkg, err)
			os.Exit(1)
		}
	}

	ts, err := golang.ToTypescript()
	if err != nil {
		fmt.Fprintf(os.Stderr, "typegen: failed to convert: %v\n", err)
		os.Exit(1)
	}

	ts.ApplyMutations(
		config.EnumLists,
		config.ExportTypes,
	)

	output, err := ts.Serialize()
	if err != nil {
		fmt.Fprintf(os.Stderr, "typegen: failed to serialize: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(output)
}
