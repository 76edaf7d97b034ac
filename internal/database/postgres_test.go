package database_test

import (
	"context"
	"errors"
	"testing"

	"f3-data-api/internal/config"
	"f3-data-api/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVerifyConnection(t *testing.T) {
	Convey("Given a database behind a mocked pool", t, func() {
		sqlDB, mock, err := sqlmock.New()
		So(err, ShouldBeNil)
		defer sqlDB.Close()

		var observed []bool
		pg, err := database.New(sqlDB, database.WithConnectionObserver(func(ok bool) {
			observed = append(observed, ok)
		}))
		So(err, ShouldBeNil)

		Convey("When the round-trip query succeeds", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectCommit()

			ok := pg.VerifyConnection(context.Background())

			Convey("Then it reports connected and commits", func() {
				So(ok, ShouldBeTrue)
				So(observed, ShouldResemble, []bool{true})
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When the query fails", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`SELECT 1`).WillReturnError(errors.New("connection refused"))
			mock.ExpectRollback()

			ok := pg.VerifyConnection(context.Background())

			Convey("Then it reports disconnected and rolls back", func() {
				So(ok, ShouldBeFalse)
				So(observed, ShouldResemble, []bool{false})
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When the session cannot be started", func() {
			mock.ExpectBegin().WillReturnError(errors.New("dial tcp: no route to host"))

			Convey("Then it reports disconnected", func() {
				So(pg.VerifyConnection(context.Background()), ShouldBeFalse)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})
	})
}

func TestOpen_DoesNotDial(t *testing.T) {
	Convey("Given settings pointing at a host that does not exist", t, func() {
		cfg := config.DB{
			User:         "u",
			Password:     "p",
			Name:         "n",
			Host:         "127.0.0.1",
			Port:         "1",
			SSLMode:      "disable",
			MaxOpenConns: 2,
			MaxIdleConns: 1,
		}

		Convey("Then Open succeeds and only the connectivity check fails", func() {
			pg, err := database.Open(cfg)
			So(err, ShouldBeNil)
			defer pg.Close()

			So(pg.VerifyConnection(context.Background()), ShouldBeFalse)
		})
	})
}

func TestClose_Nil(t *testing.T) {
	Convey("Closing a nil database is a no-op", t, func() {
		var pg *database.Postgres
		So(pg.Close(), ShouldBeNil)
	})
}
