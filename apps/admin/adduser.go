package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/dynamiclms/core"
	"github.com/trezcool/dynamiclms/core/user"
)

// addUser creates a portal user.
func (cli *commandLine) addUser(name, email, role, studentID string) error {
	usr := user.User{
		ID:        uuid.NewString(),
		Name:      core.CleanString(name),
		Email:     core.CleanString(email, true /* lower */),
		Role:      user.Role(core.CleanString(role, true /* lower */)),
		CreatedAt: time.Now().UTC(),
	}
	if !usr.Role.IsValid() {
		return core.NewFieldValidationError("role", "must be one of professor or student")
	}
	if usr.IsStudent() {
		usr.StudentID = core.CleanString(studentID)
	}

	usr, err := cli.repos.Users.CreateUser(context.Background(), usr)
	if err != nil {
		return err
	}
	logger.Printf("%s %q created with id %s", usr.Role, usr.Email, usr.ID)
	return nil
}
