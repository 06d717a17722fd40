package seeders

import (
	"examdesk_go/database"
	"examdesk_go/models"
	"examdesk_go/utils"
	"fmt"
	"log"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedFloors()
	SeedRooms()
	SeedAcademicYears()
	SeedExamTypes()
	SeedClasses()
	SeedProgramCourses()
	SeedShifts()
	SeedSubjectTypes()
	SeedSubjects()
	SeedPapers()
	SeedStudents()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds the users table
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	// Hash the default password
	hashedPassword, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Username: "admin",
			Password: hashedPassword,
			Email:    "admin@examdesk.local",
			Phone:    "0812345678",
			Role:     "admin",
			Status:   "active",
		},
		{
			Username: "controller",
			Password: hashedPassword,
			Email:    "controller@examdesk.local",
			Phone:    "0812345679",
			Role:     "controller",
			Status:   "active",
		},
		{
			Username: "staff",
			Password: hashedPassword,
			Email:    "staff@examdesk.local",
			Phone:    "0812345680",
			Role:     "staff",
			Status:   "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedFloors seeds the floors table
func SeedFloors() {
	var count int64
	database.DB.Model(&models.Floor{}).Count(&count)
	if count > 0 {
		log.Println("Floors already seeded, skipping...")
		return
	}

	floors := []models.Floor{
		{Name: "Ground Floor", ShortName: "GF", Active: true},
		{Name: "First Floor", ShortName: "1F", Active: true},
		{Name: "Second Floor", ShortName: "2F", Active: true},
	}

	for _, floor := range floors {
		if err := database.DB.Create(&floor).Error; err != nil {
			log.Printf("Error seeding floor %s: %v", floor.Name, err)
		}
	}

	log.Println("Floors seeded successfully")
}

// SeedRooms seeds the rooms table
func SeedRooms() {
	var count int64
	database.DB.Model(&models.Room{}).Count(&count)
	if count > 0 {
		log.Println("Rooms already seeded, skipping...")
		return
	}

	rooms := []models.Room{
		{FloorID: 1, Name: "Room 101", ShortName: "R101", NumberOfBenches: 20, MaxStudentsPerBench: 2, Active: true},
		{FloorID: 1, Name: "Room 102", ShortName: "R102", NumberOfBenches: 15, MaxStudentsPerBench: 2, Active: true},
		{FloorID: 2, Name: "Room 201", ShortName: "R201", NumberOfBenches: 25, MaxStudentsPerBench: 2, Active: true},
		{FloorID: 2, Name: "Room 202", ShortName: "R202", NumberOfBenches: 18, MaxStudentsPerBench: 3, Active: true},
		{FloorID: 3, Name: "Examination Hall", ShortName: "HALL", NumberOfBenches: 60, MaxStudentsPerBench: 2, Active: true},
	}

	for _, room := range rooms {
		if err := database.DB.Create(&room).Error; err != nil {
			log.Printf("Error seeding room %s: %v", room.Name, err)
		}
	}

	log.Println("Rooms seeded successfully")
}

// SeedAcademicYears seeds the academic_years table
func SeedAcademicYears() {
	var count int64
	database.DB.Model(&models.AcademicYear{}).Count(&count)
	if count > 0 {
		log.Println("Academic years already seeded, skipping...")
		return
	}

	years := []models.AcademicYear{
		{Year: "2024-25", Active: true},
		{Year: "2025-26", Active: true},
	}

	for _, year := range years {
		if err := database.DB.Create(&year).Error; err != nil {
			log.Printf("Error seeding academic year %s: %v", year.Year, err)
		}
	}

	log.Println("Academic years seeded successfully")
}

// SeedExamTypes seeds the exam_types table
func SeedExamTypes() {
	var count int64
	database.DB.Model(&models.ExamType{}).Count(&count)
	if count > 0 {
		log.Println("Exam types already seeded, skipping...")
		return
	}

	examTypes := []models.ExamType{
		{Name: "Internal Assessment", Code: "IA", Active: true},
		{Name: "Semester Examination", Code: "SEM", Active: true},
		{Name: "Supplementary Examination", Code: "SUPPL", Active: true},
	}

	for _, examType := range examTypes {
		if err := database.DB.Create(&examType).Error; err != nil {
			log.Printf("Error seeding exam type %s: %v", examType.Code, err)
		}
	}

	log.Println("Exam types seeded successfully")
}

// SeedClasses seeds the classes table
func SeedClasses() {
	var count int64
	database.DB.Model(&models.Class{}).Count(&count)
	if count > 0 {
		log.Println("Classes already seeded, skipping...")
		return
	}

	classes := []models.Class{
		{Name: "Semester I", Active: true},
		{Name: "Semester III", Active: true},
		{Name: "Semester V", Active: true},
	}

	for _, class := range classes {
		if err := database.DB.Create(&class).Error; err != nil {
			log.Printf("Error seeding class %s: %v", class.Name, err)
		}
	}

	log.Println("Classes seeded successfully")
}

// SeedProgramCourses seeds the program_courses table
func SeedProgramCourses() {
	var count int64
	database.DB.Model(&models.ProgramCourse{}).Count(&count)
	if count > 0 {
		log.Println("Program courses already seeded, skipping...")
		return
	}

	courses := []models.ProgramCourse{
		{Name: "Bachelor of Arts", Code: "BA", Active: true},
		{Name: "Bachelor of Science", Code: "BSC", Active: true},
		{Name: "Bachelor of Commerce", Code: "BCOM", Active: true},
	}

	for _, course := range courses {
		if err := database.DB.Create(&course).Error; err != nil {
			log.Printf("Error seeding program course %s: %v", course.Code, err)
		}
	}

	log.Println("Program courses seeded successfully")
}

// SeedShifts seeds the shifts table
func SeedShifts() {
	var count int64
	database.DB.Model(&models.Shift{}).Count(&count)
	if count > 0 {
		log.Println("Shifts already seeded, skipping...")
		return
	}

	shifts := []models.Shift{
		{Name: "Morning", Active: true},
		{Name: "Day", Active: true},
	}

	for _, shift := range shifts {
		if err := database.DB.Create(&shift).Error; err != nil {
			log.Printf("Error seeding shift %s: %v", shift.Name, err)
		}
	}

	log.Println("Shifts seeded successfully")
}

// SeedSubjectTypes seeds the subject_types table
func SeedSubjectTypes() {
	var count int64
	database.DB.Model(&models.SubjectType{}).Count(&count)
	if count > 0 {
		log.Println("Subject types already seeded, skipping...")
		return
	}

	subjectTypes := []models.SubjectType{
		{Name: "Honours", Code: "HONS", Active: true},
		{Name: "Program", Code: "PROG", Active: true},
		{Name: "Generic Elective", Code: "GE", Active: true},
	}

	for _, subjectType := range subjectTypes {
		if err := database.DB.Create(&subjectType).Error; err != nil {
			log.Printf("Error seeding subject type %s: %v", subjectType.Code, err)
		}
	}

	log.Println("Subject types seeded successfully")
}

// SeedSubjects seeds the subjects table
func SeedSubjects() {
	var count int64
	database.DB.Model(&models.Subject{}).Count(&count)
	if count > 0 {
		log.Println("Subjects already seeded, skipping...")
		return
	}

	subjects := []models.Subject{
		{Name: "English", Code: "ENG", Active: true},
		{Name: "Mathematics", Code: "MATH", Active: true},
		{Name: "Physics", Code: "PHY", Active: true},
		{Name: "History", Code: "HIST", Active: true},
		{Name: "Accountancy", Code: "ACC", Active: true},
	}

	for _, subject := range subjects {
		if err := database.DB.Create(&subject).Error; err != nil {
			log.Printf("Error seeding subject %s: %v", subject.Code, err)
		}
	}

	log.Println("Subjects seeded successfully")
}

// SeedPapers seeds the papers table
func SeedPapers() {
	var count int64
	database.DB.Model(&models.Paper{}).Count(&count)
	if count > 0 {
		log.Println("Papers already seeded, skipping...")
		return
	}

	papers := []models.Paper{
		{Name: "English Core Paper I", Code: "ENG-C1", SubjectID: 1, SubjectTypeID: 1, ProgramCourseID: 1, ClassID: 1, AcademicYearID: 2},
		{Name: "Mathematics Core Paper III", Code: "MATH-C3", SubjectID: 2, SubjectTypeID: 1, ProgramCourseID: 2, ClassID: 2, AcademicYearID: 2},
		{Name: "Physics Core Paper III", Code: "PHY-C3", SubjectID: 3, SubjectTypeID: 1, ProgramCourseID: 2, ClassID: 2, AcademicYearID: 2},
		{Name: "History GE Paper I", Code: "HIST-GE1", SubjectID: 4, SubjectTypeID: 3, ProgramCourseID: 1, ClassID: 1, AcademicYearID: 2},
		{Name: "Accountancy Core Paper V", Code: "ACC-C5", SubjectID: 5, SubjectTypeID: 1, ProgramCourseID: 3, ClassID: 3, AcademicYearID: 2},
	}

	for i := range papers {
		papers[i].Active = true
		if err := database.DB.Create(&papers[i]).Error; err != nil {
			log.Printf("Error seeding paper %s: %v", papers[i].Code, err)
		}
	}

	log.Println("Papers seeded successfully")
}

// SeedStudents seeds the students table with sample enrollments
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	genders := []string{"MALE", "FEMALE"}
	students := make([]models.Student, 0, 40)
	for i := 1; i <= 40; i++ {
		programCourseID := uint(i%3 + 1)
		classID := uint(i%3 + 1)
		students = append(students, models.Student{
			UID:                fmt.Sprintf("2025-%04d", i),
			Name:               fmt.Sprintf("Sample Student %d", i),
			Email:              fmt.Sprintf("student%d@example.com", i),
			Gender:             genders[i%2],
			RollNumber:         fmt.Sprintf("R-%04d", i),
			RegistrationNumber: fmt.Sprintf("REG-%06d", 100000+i),
			ClassID:            classID,
			ProgramCourseID:    programCourseID,
			ShiftID:            uint(i%2 + 1),
			AcademicYearID:     2,
			Active:             true,
		})
	}

	if err := database.DB.CreateInBatches(students, 100).Error; err != nil {
		log.Printf("Error seeding students: %v", err)
	}

	log.Println("Students seeded successfully")
}
