package main

import (
	"errors"
	"flag"
	"fmt"
)

var errHelp = errors.New("help provided")

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) on the database")
	fmt.Println("  seed - load the demo courses, users & content")
	fmt.Println("  adduser -name NAME -email EMAIL [-role professor|student] [-student-id ID] - add a portal user")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserRole := addUserCmd.String("role", "student", "The user's portal: professor or student.")
	addUserStudentID := addUserCmd.String("student-id", "", "The student number, students only.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			fmt.Println("Usage: migrate COMMAND [ARGS]")
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		return cli.seed()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, *addUserRole, *addUserStudentID)
	default:
		cli.printUsage()
		return errHelp
	}
}
