package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func newLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log.WithField("component", "cgpt")
}
