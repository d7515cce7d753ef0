//go:build ignore

package main

import (
	"encoding/json"
	"fmt"

	"github.com/grindlemire/go-lucene"
	"github.com/grindlemire/go-lucene/pkg/lucene/expr"

	luceneutil "github.com/platformbuilds/klaxon-core/internal/utils/lucene"
)

func printAST(e *expr.Expression, indent int) {
	indentStr := ""
	for i := 0; i < indent; i++ {
		indentStr += "  "
	}

	fmt.Printf("%sOp: %v\n", indentStr, e.Op)
	if e.Left != nil {
		fmt.Printf("%sLeft:\n", indentStr)
		if leftExpr, ok := e.Left.(*expr.Expression); ok {
			printAST(leftExpr, indent+1)
		} else {
			fmt.Printf("%s  %T: %+v\n", indentStr, e.Left, e.Left)
		}
	}
	if e.Right != nil {
		fmt.Printf("%sRight:\n", indentStr)
		if rightExpr, ok := e.Right.(*expr.Expression); ok {
			printAST(rightExpr, indent+1)
		} else {
			fmt.Printf("%s  %T: %+v\n", indentStr, e.Right, e.Right)
		}
	}
}

func main() {
	testQueries := []string{
		"name:LINK_DOWN",
		"severity:critical AND cause:software_error",
		"index:[1000 TO 2000]",
		"name:LINK*",
		"link OR disk",
		`severity:major AND (description:"fan failed" OR details:"power lost")`,
		"itu_code:3",
	}

	for _, q := range testQueries {
		fmt.Printf("Query: '%s'\n", q)
		fmt.Printf("  likely lucene: %t\n", luceneutil.IsLikelyLucene(q))

		parsed, err := lucene.Parse(q)
		if err != nil {
			fmt.Printf("  parse error: %v\n\n", err)
			continue
		}
		printAST(parsed, 1)

		if translated, ok := luceneutil.Translate(q); ok {
			b, _ := json.Marshal(translated)
			fmt.Printf("  bleve: %s\n", b)
		} else {
			fmt.Println("  bleve: (falls back to query string syntax)")
		}
		fmt.Println()
	}
}
