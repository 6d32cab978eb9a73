// Command msgschema-vet reports message field paths that do not designate a
// string in the JSON Schema bound to the message type.
//
// Usage:
//
//	msgschema-vet [-workspace dir] [-roots a,b] [-message pkg.Type] [packages]
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/afossey/message-schema-plugin/pkg/msgpath"
)

func main() {
	singlechecker.Main(msgpath.Analyzer)
}
