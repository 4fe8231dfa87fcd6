package types

// AssignmentGORM ... row of the assignment table. set and sequence columns hold JSON text
type AssignmentGORM struct {
	ID             string `gorm:"column:id;primary_key"`
	MaxTime        int    `gorm:"column:max_time"`
	MaxMemory      int    `gorm:"column:max_memory"`
	RequiredFiles  string `gorm:"column:required_files;type:text"`
	TestCodes      string `gorm:"column:test_codes;type:text"`
	Makefile       string `gorm:"column:makefile;type:text"`
	CompileCommand string `gorm:"column:compile_command;type:text"`
	BinaryName     string `gorm:"column:binary_name"`
	LightTestCases string `gorm:"column:light_test_cases;type:text"`
	HeavyTestCases string `gorm:"column:heavy_test_cases;type:text"`
}

func (AssignmentGORM) TableName() string {
	return "assignment"
}
