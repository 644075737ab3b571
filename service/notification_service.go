package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/abeme/go_qa_api/entity"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationService persists per-recipient notification rows. The row and
// the owner's list are the same thing here, so deleting one cannot leave the
// other dangling.
type NotificationService interface {
	Create(userID, ntype, text, targetID string, dateTime time.Time) (*entity.Notification, error)
	GetByID(nid uint) (*entity.Notification, error)
	ListForUser(userID string) ([]entity.Notification, error)
	Delete(userID string, nid uint) error
	DeleteAll(userID string) error
}

type DBNotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *DBNotificationService {
	return &DBNotificationService{db: db}
}

func (s *DBNotificationService) Create(userID, ntype, text, targetID string, dateTime time.Time) (*entity.Notification, error) {
	if userID == "" || ntype == "" || text == "" || targetID == "" {
		return nil, errors.New("invalid notification")
	}
	n := &entity.Notification{
		UserID:   userID,
		Type:     ntype,
		Text:     text,
		TargetID: targetID,
		DateTime: dateTime,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

func (s *DBNotificationService) GetByID(nid uint) (*entity.Notification, error) {
	var n entity.Notification
	if err := s.db.First(&n, nid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (s *DBNotificationService) ListForUser(userID string) ([]entity.Notification, error) {
	var ns []entity.Notification
	if err := s.db.Where("user_id = ?", userID).Order("date_time DESC").Find(&ns).Error; err != nil {
		return nil, err
	}
	return ns, nil
}

// Delete removes a notification owned by the user. Deleting a notification
// that does not exist (or is owned by someone else) is an error, never a
// silent no-op.
func (s *DBNotificationService) Delete(userID string, nid uint) error {
	res := s.db.Where("id = ? AND user_id = ?", nid, userID).Delete(&entity.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteAll removes every notification owned by the user as independent
// per-row deletions. A failed deletion does not stop the remainder; any
// failure is surfaced so the caller can retry.
func (s *DBNotificationService) DeleteAll(userID string) error {
	ns, err := s.ListForUser(userID)
	if err != nil {
		return err
	}
	var failed []error
	for _, n := range ns {
		if err := s.Delete(userID, n.ID); err != nil && !errors.Is(err, ErrNotificationNotFound) {
			failed = append(failed, fmt.Errorf("notification %d: %w", n.ID, err))
		}
	}
	return errors.Join(failed...)
}
