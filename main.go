package main

import (
	"os"

	"github.com/oncuhaliyikama/siteadmin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
