package mockapi

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/uia-acad/notas/core/grading"
	"github.com/uia-acad/notas/core/student"
	"github.com/uia-acad/notas/core/teacher"
)

// account is a login-capable user: the seeded administrator plus every
// teacher record.
type account struct {
	ID       int
	Email    string
	Name     string
	Role     grading.Role
	Password string
}

// DB is the in-memory store behind the mock API. Development/test
// support only; everything is lost on restart, which is the point.
type DB struct {
	mutex sync.RWMutex

	accounts map[int]*account
	students map[int]*student.Student
	teachers map[int]*teacher.Teacher
	grades   map[int]*grading.Record
	history  []grading.HistoryEntry
	rubrics  []grading.Rubric

	accountPK int
	studentPK int
	teacherPK int
	gradePK   int
	historyPK int
}

// defaultRubrics is the seeded grading scheme; weights sum to 100.
var defaultRubrics = []grading.Rubric{
	{Code: grading.CodeAsistencia, Name: "Asistencia", Weight: 10, Active: true},
	{Code: grading.CodeTc, Name: "Trabajo Colaborativo", Weight: 10, Active: true},
	{Code: grading.CodeQuices, Name: "Quices", Weight: 10, Active: true},
	{Code: grading.CodeCompendium, Name: "Compendium", Weight: 10, Active: true},
	{Code: grading.CodeCc, Name: "Casos Clínicos", Weight: 10, Active: true},
	{Code: grading.CodeParcialI, Name: "Parcial I", Weight: 15, Active: true},
	{Code: grading.CodeParcialII, Name: "Parcial II", Weight: 15, Active: true},
	{Code: grading.CodeParcialIII, Name: "Parcial III", Weight: 10, Active: true},
	{Code: grading.CodeSimulacion, Name: "Simulación", Weight: 5, Active: true},
	{Code: grading.CodeInfografia, Name: "Infografía", Weight: 5, Active: true},
}

func NewDB() *DB {
	db := &DB{
		accounts: make(map[int]*account),
		students: make(map[int]*student.Student),
		teachers: make(map[int]*teacher.Teacher),
		grades:   make(map[int]*grading.Record),
	}
	db.rubrics = make([]grading.Rubric, len(defaultRubrics))
	copy(db.rubrics, defaultRubrics)
	for i := range db.rubrics {
		db.rubrics[i].ID = i + 1
	}
	return db
}

// SeedAdmin registers the administrator account logins start from.
func (db *DB) SeedAdmin(email, name, password string) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.accountPK++
	db.accounts[db.accountPK] = &account{
		ID:       db.accountPK,
		Email:    email,
		Name:     name,
		Role:     grading.RoleAdministrator,
		Password: password,
	}
}

var errDuplicateMatricula = errors.New("matricula already registered")

// createStudent inserts a new student, refusing duplicate matriculas.
func (db *DB) createStudent(data student.NewStudent) (student.Student, error) {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for _, st := range db.students {
		if st.Matricula == data.Matricula {
			return student.Student{}, errDuplicateMatricula
		}
	}

	db.studentPK++
	st := &student.Student{
		ID:        db.studentPK,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Matricula: data.Matricula,
		Email:     data.Email,
	}
	db.students[st.ID] = st
	return *st, nil
}

// createTeacher inserts a new teacher with a login account. The initial
// password is generated server side and returned to the caller once.
func (db *DB) createTeacher(data teacher.NewTeacher, password string) teacher.Teacher {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.teacherPK++
	t := &teacher.Teacher{
		ID:        db.teacherPK,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Specialty: data.Specialty,
		Email:     data.Email,
	}
	db.teachers[t.ID] = t

	db.accountPK++
	db.accounts[db.accountPK] = &account{
		ID:       db.accountPK,
		Email:    t.Email,
		Name:     t.FullName(),
		Role:     grading.RoleTeacher,
		Password: password,
	}
	return *t
}

// accountForTeacher finds the login account tied to a teacher record by
// email. May be nil if the email was edited out from under it.
func (db *DB) accountForTeacher(t *teacher.Teacher) *account {
	for _, acct := range db.accounts {
		if acct.Email == t.Email {
			return acct
		}
	}
	return nil
}

func (db *DB) findAccount(email string) *account {
	db.mutex.RLock()
	defer db.mutex.RUnlock()
	for _, acct := range db.accounts {
		if acct.Email == email {
			return acct
		}
	}
	return nil
}

// activeRubrics returns the rubrics gradeable in the given week: the
// same week gates the editability policy applies, seen through an
// administrator's unrestricted eyes.
func (db *DB) activeRubrics(week grading.Week) []grading.Rubric {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	active := make([]grading.Rubric, 0, len(db.rubrics))
	for _, r := range db.rubrics {
		if !r.Active {
			continue
		}
		if grading.CanEdit(r.Code, week, grading.RoleAdministrator).Editable {
			active = append(active, r)
		}
	}
	return active
}

func (db *DB) studentGrades(studentID int) []grading.Record {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	recs := make([]grading.Record, 0, 13)
	for _, rec := range db.grades {
		if rec.StudentID == studentID {
			recs = append(recs, *rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Week < recs[j].Week })
	return recs
}

func nowUTC() time.Time { return time.Now().UTC() }

// finalGrade computes the weighted final score: for every rubric, the
// average of its values across the weeks it is active in, times its
// weight. The client renders this; it must never need to recompute it.
func (db *DB) finalGrade(studentID int) grading.FinalGrade {
	recs := db.studentGrades(studentID)

	db.mutex.RLock()
	rubrics := make([]grading.Rubric, len(db.rubrics))
	copy(rubrics, db.rubrics)
	db.mutex.RUnlock()

	fg := grading.FinalGrade{Breakdown: make(map[string]grading.BreakdownEntry, len(rubrics))}
	for _, r := range rubrics {
		if !r.Active {
			continue
		}
		field := grading.FieldForCode(r.Code)

		var sum float64
		var n int
		for _, rec := range recs {
			if !grading.CanEdit(r.Code, rec.Week, grading.RoleAdministrator).Editable {
				continue
			}
			sum += rec.Value(field)
			n++
		}

		var avg float64
		if n > 0 {
			avg = sum / float64(n)
		}
		entry := grading.BreakdownEntry{
			Average:      avg,
			Contribution: avg * r.Weight / 100,
		}
		fg.Breakdown[r.Code] = entry
		fg.Final += entry.Contribution
	}
	return fg
}
