package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	cli := newCLI(os.Stdout)
	if err := cli.Execute(); err != nil {
		logrus.WithError(err).Error("dic: failed")
		os.Exit(1)
	}
}
