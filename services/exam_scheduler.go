package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"examdesk_go/database"
	"examdesk_go/models"
)

// ExamScheduler runs the periodic exam housekeeping jobs: reminders for
// exams starting soon, the morning digest for operators, and admit-card
// window announcements.
type ExamScheduler struct {
	db   *gorm.DB
	cron *cron.Cron
}

func NewExamScheduler() *ExamScheduler {
	return &ExamScheduler{
		db:   database.DB,
		cron: cron.New(),
	}
}

// Start registers the cron entries and begins running them. Stop the
// returned scheduler during shutdown.
func (es *ExamScheduler) Start() error {
	if _, err := es.cron.AddFunc("@every 15m", es.CheckUpcomingExams); err != nil {
		return fmt.Errorf("failed to schedule upcoming-exam check: %w", err)
	}
	if _, err := es.cron.AddFunc("0 7 * * *", es.SendDailyExamDigest); err != nil {
		return fmt.Errorf("failed to schedule daily digest: %w", err)
	}
	if _, err := es.cron.AddFunc("@every 30m", es.AnnounceAdmitCardWindows); err != nil {
		return fmt.Errorf("failed to schedule admit-card window check: %w", err)
	}

	es.cron.Start()
	logrus.Info("Exam scheduler started")
	return nil
}

// Stop halts the cron runner; running jobs finish first.
func (es *ExamScheduler) Stop() {
	ctx := es.cron.Stop()
	<-ctx.Done()
}

// CheckUpcomingExams notifies operators about subjects starting within the
// next 30 and 60 minutes.
func (es *ExamScheduler) CheckUpcomingExams() {
	now := time.Now()

	reminderOffsets := []struct {
		minutes int
		label   string
	}{
		{30, "30 minutes"},
		{60, "1 hour"},
	}

	for _, offset := range reminderOffsets {
		targetTime := now.Add(time.Duration(offset.minutes) * time.Minute)
		startRange := targetTime.Add(-5 * time.Minute)
		endRange := targetTime.Add(5 * time.Minute)

		var subjects []models.ExamSubject
		err := es.db.
			Preload("Subject").
			Where("start_time BETWEEN ? AND ?", startRange, endRange).
			Find(&subjects).Error
		if err != nil {
			logrus.WithError(err).Error("Failed to check upcoming exam subjects")
			continue
		}

		for _, subject := range subjects {
			if es.reminderAlreadySent(subject.ID, offset.minutes, offset.label) {
				continue
			}
			es.sendUpcomingExamNotification(subject, offset.label)
		}
	}
}

// reminderKey is the Redis dedupe key for one subject/offset reminder.
func reminderKey(examSubjectID uint, minutes int) string {
	return fmt.Sprintf("exam:reminder:%d:%d", examSubjectID, minutes)
}

// reminderAlreadySent avoids duplicate reminders within the same window.
// A Redis SETNX key guards the common path; without Redis it falls back
// to scanning recent notifications for the reminder text.
func (es *ExamScheduler) reminderAlreadySent(examSubjectID uint, minutes int, label string) bool {
	if redisClient := database.GetRedisClient(); redisClient != nil {
		ok, err := redisClient.SetNX(context.Background(), reminderKey(examSubjectID, minutes), 1, 2*time.Hour).Result()
		if err == nil {
			return !ok
		}
		logrus.WithError(err).Warn("Reminder dedupe key failed, falling back to notification scan")
	}

	var count int64
	err := es.db.Model(&models.Notification{}).
		Where("message LIKE ? AND created_at > ?",
			fmt.Sprintf("%%subject %d (%%starts in %s%%", examSubjectID, label),
			time.Now().Add(-2*time.Hour)).
		Count(&count).Error
	if err != nil {
		return false
	}
	return count > 0
}

func (es *ExamScheduler) sendUpcomingExamNotification(subject models.ExamSubject, timeLabel string) {
	operators, err := es.operatorUsers()
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch operators for exam reminder")
		return
	}

	for _, user := range operators {
		notification := models.Notification{
			UserID: user.ID,
			Title:  "Upcoming Exam",
			Message: fmt.Sprintf("Exam subject %d (%s) starts in %s at %s",
				subject.ID, subject.Subject.Name, timeLabel, subject.StartTime.Format("15:04")),
			Type: "info",
		}
		if err := es.db.Create(&notification).Error; err != nil {
			logrus.WithError(err).Errorf("Failed to create exam reminder for user %d", user.ID)
		}
	}

	logrus.Infof("Sent upcoming exam reminders for subject %d (%s before)", subject.ID, timeLabel)
}

// SendDailyExamDigest summarises today's sittings for every operator.
func (es *ExamScheduler) SendDailyExamDigest() {
	dayStart := time.Now().Truncate(24 * time.Hour)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var subjects []models.ExamSubject
	err := es.db.
		Preload("Subject").
		Where("start_time >= ? AND start_time < ?", dayStart, dayEnd).
		Order("start_time ASC").
		Find(&subjects).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch today's exam subjects")
		return
	}
	if len(subjects) == 0 {
		return
	}

	message := "Today's exam schedule:\n"
	for _, subject := range subjects {
		message += fmt.Sprintf("- %s at %s\n", subject.Subject.Name, subject.StartTime.Format("15:04"))
	}

	operators, err := es.operatorUsers()
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch operators for daily digest")
		return
	}

	for _, user := range operators {
		notification := models.Notification{
			UserID:  user.ID,
			Title:   "Daily Exam Schedule",
			Message: message,
			Type:    "info",
		}
		if err := es.db.Create(&notification).Error; err != nil {
			logrus.WithError(err).Errorf("Failed to create daily digest for user %d", user.ID)
		}
	}
}

// AnnounceAdmitCardWindows notifies operators when an exam's admit-card
// download window has just opened.
func (es *ExamScheduler) AnnounceAdmitCardWindows() {
	now := time.Now()
	windowStart := now.Add(-30 * time.Minute)

	var exams []models.Exam
	err := es.db.
		Preload("ExamType").
		Where("admit_card_start_download_date BETWEEN ? AND ?", windowStart, now).
		Find(&exams).Error
	if err != nil {
		logrus.WithError(err).Error("Failed to check admit-card windows")
		return
	}

	for _, exam := range exams {
		operators, err := es.operatorUsers()
		if err != nil {
			continue
		}
		for _, user := range operators {
			notification := models.Notification{
				UserID: user.ID,
				Title:  "Admit Card Downloads Open",
				Message: fmt.Sprintf("Admit card downloads for %s (exam %d) are now open",
					exam.ExamType.Name, exam.ID),
				Type: "success",
			}
			es.db.Create(&notification)
		}
	}
}

// operatorUsers returns the users who run examinations day to day.
func (es *ExamScheduler) operatorUsers() ([]models.User, error) {
	var users []models.User
	err := es.db.Where("role IN ? AND status = ?", []string{"admin", "controller"}, "active").Find(&users).Error
	return users, err
}
