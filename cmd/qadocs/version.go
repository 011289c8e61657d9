package main

import (
	"context"
	"fmt"

	"github.com/a-h/qadocs"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(qadocs.Version)
	return nil
}
