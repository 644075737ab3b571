package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/abeme/go_qa_api/entity"
	"github.com/abeme/go_qa_api/mail"
)

// LivePusher is the slice of the live-connection hub the fan-out needs.
type LivePusher interface {
	SendToUser(userID string, payload []byte)
}

// Fanout creates notification records for a triggering event and delivers
// them: one persisted row per recipient, a live badge event to connected
// recipients, and an optional best-effort email.
type Fanout struct {
	notifs NotificationService
	users  UserService
	hub    LivePusher
	mailer mail.Sender
}

func NewFanout(notifs NotificationService, users UserService, hub LivePusher, mailer mail.Sender) *Fanout {
	return &Fanout{notifs: notifs, users: users, hub: hub, mailer: mailer}
}

// AnswerPosted notifies the question's notify list, excluding the answerer.
func (f *Fanout) AnswerPosted(q *entity.Question, notifyList []string, actorID, actorName string) error {
	recipients, err := f.resolveRecipients(notifyList, actorID)
	if err != nil {
		return err
	}
	return f.send(recipients, "question",
		fmt.Sprintf("A new answer has been posted by %s", actorName),
		fmt.Sprint(q.ID), allRecipients)
}

// MessageSent notifies all conversation participants except the sender. Every
// recipient gets a record (and email per preference); the live badge event is
// limited to the conversation's notify list.
func (f *Fanout) MessageSent(conv *entity.Conversation, m *entity.Message) error {
	recipients, err := f.resolveRecipients(conv.ParticipantIDs(), m.Sender)
	if err != nil {
		return err
	}
	badge := make(map[string]bool)
	for _, id := range conv.NotifyList() {
		badge[id] = true
	}
	return f.send(recipients, "conversation", "You have a new message",
		fmt.Sprint(conv.ID), func(u *entity.User) bool { return badge[u.ID] })
}

// UserFollowed notifies the followed user.
func (f *Fanout) UserFollowed(follower, followee *entity.User) error {
	return f.send([]entity.User{*followee}, "user",
		fmt.Sprintf("%s started following you", follower.Username),
		follower.ID, allRecipients)
}

func allRecipients(*entity.User) bool { return true }

// resolveRecipients loads the recipient users, excluding the actor. The actor
// never notifies itself.
func (f *Fanout) resolveRecipients(userIDs []string, actorID string) ([]entity.User, error) {
	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != actorID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return f.users.GetByIDs(ids)
}

// send fans out to all recipients concurrently. Record creation failures are
// collected and returned; live-push and email failures are absorbed.
func (f *Fanout) send(recipients []entity.User, ntype, text, targetID string, badge func(*entity.User) bool) error {
	if len(recipients) == 0 {
		return nil
	}

	now := time.Now()
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for i := range recipients {
		u := recipients[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := f.notifs.Create(u.ID, ntype, text, targetID, now)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("notify %s: %w", u.ID, err))
				mu.Unlock()
				return
			}
			if badge(&u) {
				payload, err := json.Marshal(map[string]interface{}{
					"type": "notificationUpdate",
					"payload": map[string]interface{}{
						"uid":          u.ID,
						"notification": n,
					},
				})
				if err == nil {
					f.hub.SendToUser(u.ID, payload)
				}
			}
			if u.EmailNotifications {
				f.mailer.Enqueue(mail.Email{
					To:      u.Email,
					Subject: "New Notification",
					Body:    fmt.Sprintf("You have a new notification: %s", text),
				})
			}
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		err := errors.Join(errs...)
		log.Printf("notification fanout: %v", err)
		return err
	}
	return nil
}
