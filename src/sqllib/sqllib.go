package sqllib

import (
	"encoding/json"
	"sort"

	// mysql driver
	_ "github.com/go-sql-driver/mysql"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/pkg/errors"

	"github.com/dsa-sandbox/sandbox-judge/src/types"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

type DB struct {
	db *gorm.DB
}

// Open ... db の client を返す. location is a file path for sqlite3 and a DSN otherwise
func Open(dbms, location string) (*DB, error) {
	db, err := gorm.Open(dbms, location)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", dbms)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Migrate creates the assignment table or adds missing columns.
func (d *DB) Migrate() error {
	if err := d.db.AutoMigrate(&types.AssignmentGORM{}).Error; err != nil {
		return errors.Wrap(err, "failed to migrate assignment table")
	}
	return nil
}

func (d *DB) FindAssignment(id string) (*types.Assignment, error) {
	var row types.AssignmentGORM
	if err := d.db.Where("id = ?", id).First(&row).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, errors.Wrapf(err, "failed to query assignment %s", id)
	}

	assignment, err := fromRow(row)
	if err != nil {
		return nil, errors.Wrapf(err, "assignment %s is corrupt", id)
	}
	return assignment, nil
}

// SaveAssignment inserts the assignment or replaces the row with the same id.
func (d *DB) SaveAssignment(assignment *types.Assignment) error {
	row, err := toRow(assignment)
	if err != nil {
		return err
	}
	if err := d.db.Save(&row).Error; err != nil {
		return errors.Wrapf(err, "failed to save assignment %s", assignment.ID)
	}
	return nil
}

func toRow(a *types.Assignment) (types.AssignmentGORM, error) {
	requiredFiles := make([]string, 0)
	if a.RequiredFiles != nil {
		requiredFiles = a.RequiredFiles.ToSlice()
		sort.Strings(requiredFiles)
	}
	testCodes := a.TestCodes
	if testCodes == nil {
		testCodes = map[string]string{}
	}

	row := types.AssignmentGORM{
		ID:             a.ID,
		MaxTime:        a.MaxTimeMs,
		MaxMemory:      a.MaxMemoryKB,
		Makefile:       a.Makefile,
		CompileCommand: a.CompileCommand,
		BinaryName:     a.BinaryName,
	}

	columns := []struct {
		dst *string
		src interface{}
	}{
		{&row.RequiredFiles, requiredFiles},
		{&row.TestCodes, testCodes},
		{&row.LightTestCases, nonNil(a.LightTestCases)},
		{&row.HeavyTestCases, nonNil(a.HeavyTestCases)},
	}
	for _, col := range columns {
		b, err := json.Marshal(col.src)
		if err != nil {
			return row, errors.Wrapf(err, "failed to encode assignment %s", a.ID)
		}
		*col.dst = string(b)
	}
	return row, nil
}

func fromRow(row types.AssignmentGORM) (*types.Assignment, error) {
	var requiredFiles []string
	assignment := &types.Assignment{
		ID:             row.ID,
		MaxTimeMs:      row.MaxTime,
		MaxMemoryKB:    row.MaxMemory,
		Makefile:       row.Makefile,
		CompileCommand: row.CompileCommand,
		BinaryName:     row.BinaryName,
	}

	columns := []struct {
		name string
		src  string
		dst  interface{}
	}{
		{"required_files", row.RequiredFiles, &requiredFiles},
		{"test_codes", row.TestCodes, &assignment.TestCodes},
		{"light_test_cases", row.LightTestCases, &assignment.LightTestCases},
		{"heavy_test_cases", row.HeavyTestCases, &assignment.HeavyTestCases},
	}
	for _, col := range columns {
		if col.src == "" {
			continue
		}
		if err := json.Unmarshal([]byte(col.src), col.dst); err != nil {
			return nil, errors.Wrapf(err, "bad %s column", col.name)
		}
	}

	assignment.RequiredFiles = mapset.NewSet(requiredFiles...)
	return assignment, nil
}

func nonNil(testcases []types.TestCase) []types.TestCase {
	if testcases == nil {
		return []types.TestCase{}
	}
	return testcases
}
