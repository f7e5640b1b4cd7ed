package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "TalentBridge-backend/internal/model"
	"TalentBridge-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & records
var (
	TestSuperAdmin      m.User
	TestHR1             m.User
	TestHR2             m.User
	TestHRUnapproved    m.User
	TestApplicant1      m.User
	TestApplicant2      m.User
	TestHRDetails1      m.HrDetails
	TestApplicantProf1  m.ApplicantDetails
	TestApplicantProf2  m.ApplicantDetails

	// Exported plain password shared by all seeded users
	TestSeedPassword = "SeedPass123!"

	// Exported seeded job postings
	TestJob1 m.JobPosting // owned by TestHR1, OPEN
	TestJob2 m.JobPosting // owned by TestHR1, CLOSE
	TestJob3 m.JobPosting // owned by TestHR2, OPEN
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users, profiles, and job postings if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	userSpecs := []struct {
		fullName string
		email    string
		phone    string
		role     string
		approved bool
	}{
		{"Platform Admin", "admin@talentbridge.test", "0300000001", m.RoleSuperAdmin, true},
		{"Helen Recruiter", "hr1@acme.test", "0200000001", m.RoleHR, true},
		{"Harry Recruiter", "hr2@globex.test", "0200000002", m.RoleHR, true},
		{"Paula Pending", "hr3@initech.test", "0200000003", m.RoleHR, false},
		{"Alice Applicant", "alice@example.test", "0100000001", m.RoleApplicant, true},
		{"Bob Applicant", "bob@example.test", "0100000002", m.RoleApplicant, true},
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			FullName:   s.fullName,
			Email:      s.email,
			Phone:      s.phone,
			Role:       s.role,
			Password:   hashedPwd,
			IsApproved: s.approved,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Email {
		case "admin@talentbridge.test":
			TestSuperAdmin = u
		case "hr1@acme.test":
			TestHR1 = u
		case "hr2@globex.test":
			TestHR2 = u
		case "hr3@initech.test":
			TestHRUnapproved = u
		case "alice@example.test":
			TestApplicant1 = u
		case "bob@example.test":
			TestApplicant2 = u
		}
	}

	// 1:1 profile rows, created the same way registration does
	five := 5
	two := 2
	applicantProfiles := []m.ApplicantDetails{
		{
			ApplicantID: TestApplicant1.ID,
			Skill:       "go",
			Experience:  &five,
			LinkedIn:    "https://linkedin.com/in/alice",
			Resume:      "resumes/seed-alice.pdf",
		},
		{
			ApplicantID: TestApplicant2.ID,
			Skill:       "java",
			Experience:  &two,
		},
	}
	if err := db.Create(&applicantProfiles).Error; err != nil {
		return err
	}
	TestApplicantProf1 = applicantProfiles[0]
	TestApplicantProf2 = applicantProfiles[1]

	hrDetails := m.HrDetails{
		HRID:        TestHR1.ID,
		CompanyName: "Acme Corp",
		Designation: "Talent Lead",
	}
	if err := db.Create(&hrDetails).Error; err != nil {
		return err
	}
	TestHRDetails1 = hrDetails

	jobs := []m.JobPosting{
		{
			HRID: TestHR1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Backend Engineer",
				Description:  "Build and operate Go services.",
				Requirements: "Go; SQL; 2+ years experience",
				Salary:       "90000",
				Location:     "Berlin",
				Category:     "Engineering",
				Status:       m.JobStatusOpen,
				ImageURL:     m.DefaultJobImageURL,
			},
		},
		{
			HRID: TestHR1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Frontend Developer",
				Description:  "Component library work in React.",
				Requirements: "JS/TS fundamentals",
				Salary:       "75000",
				Location:     "Remote",
				Category:     "Engineering",
				Status:       m.JobStatusClose,
				ImageURL:     m.DefaultJobImageURL,
			},
		},
		{
			HRID: TestHR2.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Data Analyst",
				Description:  "Dashboards and data cleansing.",
				Requirements: "SQL; basic statistics",
				Salary:       "65000",
				Location:     "Madrid",
				Category:     "Data",
				Status:       m.JobStatusOpen,
				ImageURL:     m.DefaultJobImageURL,
			},
		},
	}

	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJob1 = jobs[0]
	TestJob2 = jobs[1]
	TestJob3 = jobs[2]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("email IN ?", []string{
		"admin@talentbridge.test", "hr1@acme.test", "hr2@globex.test",
		"hr3@initech.test", "alice@example.test", "bob@example.test",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Email {
		case "admin@talentbridge.test":
			TestSuperAdmin = u
		case "hr1@acme.test":
			TestHR1 = u
		case "hr2@globex.test":
			TestHR2 = u
		case "hr3@initech.test":
			TestHRUnapproved = u
		case "alice@example.test":
			TestApplicant1 = u
		case "bob@example.test":
			TestApplicant2 = u
		}
	}

	_ = db.First(&TestApplicantProf1, "applicant_id = ?", TestApplicant1.ID).Error
	_ = db.First(&TestApplicantProf2, "applicant_id = ?", TestApplicant2.ID).Error
	_ = db.First(&TestHRDetails1, "hr_id = ?", TestHR1.ID).Error

	var jobs []m.JobPosting
	if err := db.Order("id ASC").Limit(3).Find(&jobs).Error; err == nil {
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
		if len(jobs) > 2 {
			TestJob3 = jobs[2]
		}
	}

	return nil
}
