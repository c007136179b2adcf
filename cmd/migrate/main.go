package main

import (
	"database/sql"
	"time"

	"flipseven-server/internal/config"
	"flipseven-server/pkg/db"
	"github.com/sirupsen/logrus"
)

func main() {
	if driver := config.Instance().Storage.Driver; driver != "postgres" {
		logrus.WithField("driver", driver).Info("storage driver does not use migrations")
		return
	}

	waitForDB()
	db.Migrate()
}

func waitForDB() {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			dbh := func() *sql.DB {
				defer func() { _ = recover() }()
				return db.Instance()
			}()

			if dbh != nil {
				return
			}

			time.Sleep(time.Millisecond * 500)
		}
	}
}
