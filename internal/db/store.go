package db

import (
	"database/sql"

	"github.com/edouardv/campus-manager/internal/livequery"
)

// Table names as published on the change broker.
const (
	TableUsers       = "users"
	TableStudents    = "students"
	TableTeachers    = "teachers"
	TableCourses     = "courses"
	TableEnrollments = "enrollments"
)

// Store owns the database handle and the change broker. All query and
// mutation operations hang off it; mutations publish the touched tables
// after the statement returns.
type Store struct {
	db     *sql.DB
	broker *livequery.Broker
}

func NewStore(database *sql.DB, broker *livequery.Broker) *Store {
	if broker == nil {
		broker = livequery.NewBroker()
	}
	return &Store{db: database, broker: broker}
}

func (s *Store) DB() *sql.DB               { return s.db }
func (s *Store) Broker() *livequery.Broker { return s.broker }

// Watch subscribes to change notifications for the given tables.
func (s *Store) Watch(tables ...string) *livequery.Subscription {
	return s.broker.Subscribe(tables...)
}

func (s *Store) notify(tables ...string) {
	s.broker.Publish(tables...)
}
