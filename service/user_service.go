package service

import (
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/abeme/go_qa_api/entity"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidCreds = errors.New("invalid credentials")
	ErrUserNotFound = errors.New("user not found")
)

// UserService abstracts user ops.
type UserService interface {
	CreateUser(username, email, password string) (*entity.User, error)
	Authenticate(username, password string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	GetByUsernames(usernames []string) ([]entity.User, error)
	GetByIDs(ids []string) ([]entity.User, error)
	SetEmailNotifications(id string, enabled bool) error
	ToggleFollow(followerID, followeeID string) (bool, error)
}

type DBUserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *DBUserService {
	return &DBUserService{db: db}
}

func (s *DBUserService) CreateUser(username, email, password string) (*entity.User, error) {
	var cnt int64
	if err := s.db.Model(&entity.User{}).Where("username = ? OR email = ?", username, email).Count(&cnt).Error; err != nil {
		return nil, err
	}
	if cnt > 0 {
		return nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (s *DBUserService) Authenticate(username, password string) (*entity.User, error) {
	var u entity.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCreds
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCreds
	}
	return &u, nil
}

func (s *DBUserService) GetByID(id string) (*entity.User, error) {
	var u entity.User
	if err := s.db.Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *DBUserService) GetByUsername(username string) (*entity.User, error) {
	var u entity.User
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *DBUserService) GetByUsernames(usernames []string) ([]entity.User, error) {
	var users []entity.User
	if err := s.db.Where("username IN ?", usernames).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *DBUserService) GetByIDs(ids []string) ([]entity.User, error) {
	var users []entity.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *DBUserService) SetEmailNotifications(id string, enabled bool) error {
	res := s.db.Model(&entity.User{}).Where("id = ?", id).Update("email_notifications", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ToggleFollow adds the follow edge if absent, removes it if present.
// Returns true when the follower now follows the followee.
func (s *DBUserService) ToggleFollow(followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return false, errors.New("cannot follow self")
	}
	var followed bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&entity.User{}).Where("id = ?", followeeID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return ErrUserNotFound
		}
		var f entity.Follow
		err := tx.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).First(&f).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			followed = true
			return tx.Create(&entity.Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
		case err != nil:
			return err
		default:
			followed = false
			return tx.Delete(&f).Error
		}
	})
	return followed, err
}
