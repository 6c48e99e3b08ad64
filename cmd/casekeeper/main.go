package main

import (
	"context"
	"log"
	"os"

	"github.com/casekeeper/casekeeper/pkg/casekeeper"
)

func main() {
	if err := casekeeper.Main(context.Background(), os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
