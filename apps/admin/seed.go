package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/storage/database/fixtures"
)

func (cli *commandLine) seed() error {
	if err := fixtures.Load(context.Background(), cli.repos); err != nil {
		return errors.Wrap(err, "loading fixtures")
	}
	logger.Println("demo data loaded")
	return nil
}
