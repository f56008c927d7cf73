// Package logging configures the process-wide logrus logger.
package logging

import (
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

func Setup(level, format string) {
	logger := logrus.StandardLogger()
	logger.SetOutput(os.Stdout)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	log.SetOutput(logger.Writer())
}
