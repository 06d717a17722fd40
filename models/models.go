package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// User model for console operators
type User struct {
	BaseModel
	Username             string     `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password             string     `json:"-" gorm:"size:255;not null"`
	Email                string     `json:"email" gorm:"size:255;uniqueIndex"`
	Phone                string     `json:"phone" gorm:"size:20"`
	Role                 string     `json:"role" gorm:"size:50;not null;default:'staff';type:enum('admin','controller','staff')"` // admin, controller, staff
	Status               string     `json:"status" gorm:"size:50;not null;default:'active';type:enum('active','inactive','suspended')"`
	PasswordResetToken   string     `json:"-" gorm:"size:255"`
	PasswordResetExpires *time.Time `json:"-"`
}

// Floor master data
type Floor struct {
	BaseModel
	Name      string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	ShortName string `json:"short_name" gorm:"size:50"`
	Active    bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Rooms []Room `json:"rooms,omitempty" gorm:"foreignKey:FloorID"`
}

// Room master data. Exam capacity is always derived from benches and
// students-per-bench; it is never stored on the room itself.
type Room struct {
	BaseModel
	FloorID             uint   `json:"floor_id" gorm:"not null;index"`
	Name                string `json:"name" gorm:"size:100;not null"`
	ShortName           string `json:"short_name" gorm:"size:50"`
	NumberOfBenches     int    `json:"number_of_benches" gorm:"not null;default:0"`
	MaxStudentsPerBench int    `json:"max_students_per_bench" gorm:"not null;default:2"`
	Active              bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Floor Floor `json:"floor,omitempty" gorm:"foreignKey:FloorID"`
}

// Academic reference data
type AcademicYear struct {
	BaseModel
	Year   string `json:"year" gorm:"size:20;not null;uniqueIndex"`
	Active bool   `json:"is_active" gorm:"default:true"`
}

type ExamType struct {
	BaseModel
	Name   string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Code   string `json:"code" gorm:"size:50"`
	Active bool   `json:"is_active" gorm:"default:true"`
}

// Class represents a semester/year grouping (e.g. "Semester III")
type Class struct {
	BaseModel
	Name   string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Active bool   `json:"is_active" gorm:"default:true"`
}

type ProgramCourse struct {
	BaseModel
	Name   string `json:"name" gorm:"size:255;not null"`
	Code   string `json:"code" gorm:"size:50;uniqueIndex"`
	Active bool   `json:"is_active" gorm:"default:true"`
}

type Shift struct {
	BaseModel
	Name   string `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Active bool   `json:"is_active" gorm:"default:true"`
}

type SubjectType struct {
	BaseModel
	Name   string `json:"name" gorm:"size:100;not null"`
	Code   string `json:"code" gorm:"size:50;uniqueIndex"`
	Active bool   `json:"is_active" gorm:"default:true"`
}

type Subject struct {
	BaseModel
	Name   string `json:"name" gorm:"size:255;not null"`
	Code   string `json:"code" gorm:"size:50;uniqueIndex"`
	Active bool   `json:"is_active" gorm:"default:true"`
}

// Paper ties a subject to a program course, class, academic year and
// subject category. Seat eligibility resolves students through papers.
type Paper struct {
	BaseModel
	Name            string `json:"name" gorm:"size:255;not null"`
	Code            string `json:"code" gorm:"size:50"`
	SubjectID       uint   `json:"subject_id" gorm:"not null;index"`
	SubjectTypeID   uint   `json:"subject_type_id" gorm:"not null;index"`
	ProgramCourseID uint   `json:"program_course_id" gorm:"not null;index"`
	ClassID         uint   `json:"class_id" gorm:"not null;index"`
	AcademicYearID  uint   `json:"academic_year_id" gorm:"not null;index"`
	Active          bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Subject       Subject       `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	SubjectType   SubjectType   `json:"subject_type,omitempty" gorm:"foreignKey:SubjectTypeID"`
	ProgramCourse ProgramCourse `json:"program_course,omitempty" gorm:"foreignKey:ProgramCourseID"`
}

// Student enrollment record
type Student struct {
	BaseModel
	UID                string `json:"uid" gorm:"size:50;not null;uniqueIndex"`
	Name               string `json:"name" gorm:"size:255;not null"`
	Email              string `json:"email" gorm:"size:255"`
	WhatsappPhone      string `json:"whatsapp_phone" gorm:"size:20"`
	Gender             string `json:"gender" gorm:"size:20;type:enum('MALE','FEMALE','OTHER')"`
	RollNumber         string `json:"roll_number" gorm:"size:50;index"`
	RegistrationNumber string `json:"registration_number" gorm:"size:50;index"`
	ClassID            uint   `json:"class_id" gorm:"not null;index"`
	ProgramCourseID    uint   `json:"program_course_id" gorm:"not null;index"`
	ShiftID            uint   `json:"shift_id" gorm:"index"`
	AcademicYearID     uint   `json:"academic_year_id" gorm:"not null;index"`
	Active             bool   `json:"is_active" gorm:"default:true"`

	// Relationships
	Class         Class         `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	ProgramCourse ProgramCourse `json:"program_course,omitempty" gorm:"foreignKey:ProgramCourseID"`
	Shift         Shift         `json:"shift,omitempty" gorm:"foreignKey:ShiftID"`
}

// Exam aggregate root
type Exam struct {
	BaseModel
	ExamTypeID     uint  `json:"exam_type_id" gorm:"not null;index"`
	AcademicYearID uint  `json:"academic_year_id" gorm:"not null;index"`
	ClassID        uint  `json:"class_id" gorm:"not null;index"`
	AffiliationID  *uint `json:"affiliation_id"`
	RegulationID   *uint `json:"regulation_id"`
	// Gender restriction for allotment; empty means all students
	Gender    string `json:"gender" gorm:"size:20;type:enum('MALE','FEMALE','OTHER','')"`
	OrderType string `json:"order_type" gorm:"size:50;default:'UID';type:enum('UID','CU_ROLL_NUMBER','CU_REGISTRATION_NUMBER')"`

	AdmitCardStartDownloadDate *time.Time `json:"admit_card_start_download_date"`
	AdmitCardLastDownloadDate  *time.Time `json:"admit_card_last_download_date"`
	LastUpdatedByUserID        *uint      `json:"last_updated_by_user_id"`

	// Relationships
	ExamType           ExamType            `json:"exam_type,omitempty" gorm:"foreignKey:ExamTypeID"`
	AcademicYear       AcademicYear        `json:"academic_year,omitempty" gorm:"foreignKey:AcademicYearID"`
	Class              Class               `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	ExamSubjects       []ExamSubject       `json:"exam_subjects,omitempty" gorm:"foreignKey:ExamID"`
	ExamShifts         []ExamShift         `json:"exam_shifts,omitempty" gorm:"foreignKey:ExamID"`
	ExamProgramCourses []ExamProgramCourse `json:"exam_program_courses,omitempty" gorm:"foreignKey:ExamID"`
	ExamSubjectTypes   []ExamSubjectType   `json:"exam_subject_types,omitempty" gorm:"foreignKey:ExamID"`
	ExamRooms          []ExamRoom          `json:"exam_rooms,omitempty" gorm:"foreignKey:ExamID"`
}

// ExamSubject is one subject's scheduled window within an exam
type ExamSubject struct {
	BaseModel
	ExamID    uint      `json:"exam_id" gorm:"not null;index"`
	SubjectID uint      `json:"subject_id" gorm:"not null;index"`
	PaperID   *uint     `json:"paper_id"`
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	// Relationships
	Subject Subject `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}

type ExamShift struct {
	BaseModel
	ExamID  uint `json:"exam_id" gorm:"not null;index"`
	ShiftID uint `json:"shift_id" gorm:"not null;index"`

	Shift Shift `json:"shift,omitempty" gorm:"foreignKey:ShiftID"`
}

type ExamProgramCourse struct {
	BaseModel
	ExamID          uint `json:"exam_id" gorm:"not null;index"`
	ProgramCourseID uint `json:"program_course_id" gorm:"not null;index"`

	ProgramCourse ProgramCourse `json:"program_course,omitempty" gorm:"foreignKey:ProgramCourseID"`
}

type ExamSubjectType struct {
	BaseModel
	ExamID        uint `json:"exam_id" gorm:"not null;index"`
	SubjectTypeID uint `json:"subject_type_id" gorm:"not null;index"`

	SubjectType SubjectType `json:"subject_type,omitempty" gorm:"foreignKey:SubjectTypeID"`
}

// ExamRoom is a room booked for an exam, with the per-bench density and
// derived capacity frozen at allotment time.
type ExamRoom struct {
	BaseModel
	ExamID           uint `json:"exam_id" gorm:"not null;index"`
	RoomID           uint `json:"room_id" gorm:"not null;index"`
	Capacity         int  `json:"capacity" gorm:"not null"`
	StudentsPerBench int  `json:"students_per_bench" gorm:"not null"`

	// Relationships
	Room Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

// ExamCandidate is a student seated in an exam room
type ExamCandidate struct {
	BaseModel
	ExamID                uint       `json:"exam_id" gorm:"not null;index"`
	StudentID             uint       `json:"student_id" gorm:"not null;index"`
	ExamRoomID            uint       `json:"exam_room_id" gorm:"not null;index"`
	ExamSubjectID         uint       `json:"exam_subject_id" gorm:"index"`
	SeatNumber            string     `json:"seat_number" gorm:"size:20"`
	FoilNumber            *string    `json:"foil_number" gorm:"size:50"`
	AdmitCardDownloadedAt *time.Time `json:"admit_card_downloaded_at"`

	// Relationships
	Student  Student  `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	ExamRoom ExamRoom `json:"exam_room,omitempty" gorm:"foreignKey:ExamRoomID"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:json"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null;type:enum('info','warning','error','success')"`
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending';type:enum('pending','completed','failed')"`
	Error       string    `json:"error" gorm:"type:text"`
}
