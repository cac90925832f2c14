package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/storage/database"
	"github.com/trezcool/dynamiclms/storage/database/fixtures"
	sqlxrepos "github.com/trezcool/dynamiclms/storage/database/sqlx"
)

var logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

type commandLine struct {
	db    *sql.DB
	repos fixtures.Repositories
}

func main() {
	conf := core.NewConfig()
	if conf.Database.InMemory() {
		logger.Fatalf("admin commands need a postgres database, set %s_DATABASE_ENGINE=postgres", conf.Env)
	}

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		db:    db.DB,
		repos: sqlxrepos.Repositories(db),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
