// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"os"

	"github.com/CrawX/go-contact-classifier/cli"
	"github.com/CrawX/go-contact-classifier/log"
)

func main() {
	log.InitLogging("info")

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
