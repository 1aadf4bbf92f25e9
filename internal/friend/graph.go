// Package friend maintains the friend relation graph. Rows are created
// directionally (requester -> target) but accepted relations are treated
// as bidirectional everywhere, with at most one row per unordered pair.
package friend

import (
	"errors"
	"fmt"

	"github.com/dmm8rgbc4y-sudo/jantomo/model"
	"gorm.io/gorm"
)

var (
	ErrSelfRequest    = errors.New("cannot send a friend request to yourself")
	ErrUnknownUser    = errors.New("user does not exist")
	ErrAlreadyRelated = errors.New("a relation with this user already exists")
	ErrNotFound       = errors.New("friend relation not found")
)

type Graph struct {
	db *gorm.DB
}

func NewGraph(db *gorm.DB) *Graph {
	return &Graph{db: db}
}

// SendRequest resolves the target by username and inserts a pending
// relation. Any existing relation between the pair, in either direction
// and any status, blocks a new request.
func (g *Graph) SendRequest(fromID uint, toUsername string) (uint, error) {
	var target model.User

	err := g.db.Where("username = ?", toUsername).First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUnknownUser
		}

		return 0, fmt.Errorf("failed to look up target user, %w", err)
	}

	if target.ID == fromID {
		return 0, ErrSelfRequest
	}

	var relationID uint

	err = g.db.Transaction(func(tx *gorm.DB) error {
		var existing model.FriendRelation

		err := tx.Where(
			"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			fromID, target.ID, target.ID, fromID,
		).First(&existing).Error
		if err == nil {
			return ErrAlreadyRelated
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check for an existing relation, %w", err)
		}

		relation := model.FriendRelation{
			UserID:   fromID,
			FriendID: target.ID,
			Status:   model.RelationPending,
		}

		if err := tx.Create(&relation).Error; err != nil {
			return fmt.Errorf("failed to create friend request, %w", err)
		}

		relationID = relation.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	return relationID, nil
}

// PendingRequest finds the pending relation sent by fromID to toID and
// returns its ID. The inbox addresses requests by sender, this maps that
// back to the relation row.
func (g *Graph) PendingRequest(fromID, toID uint) (uint, error) {
	var relation model.FriendRelation

	err := g.db.Where(
		"user_id = ? AND friend_id = ? AND status = ?",
		fromID, toID, model.RelationPending,
	).First(&relation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("failed to look up friend request, %w", err)
	}

	return relation.ID, nil
}

// Respond accepts or rejects the pending request addressed to responderID.
// Accept flips the row to accepted, reject deletes it. A second call for
// an already resolved request fails with ErrNotFound.
func (g *Graph) Respond(requestID, responderID uint, accept bool) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var relation model.FriendRelation

		err := tx.Where(
			"id = ? AND friend_id = ? AND status = ?",
			requestID, responderID, model.RelationPending,
		).First(&relation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}

			return fmt.Errorf("failed to look up friend request, %w", err)
		}

		if accept {
			relation.Status = model.RelationAccepted

			if err := tx.Save(&relation).Error; err != nil {
				return fmt.Errorf("failed to accept friend request, %w", err)
			}

			return nil
		}

		if err := tx.Delete(&relation).Error; err != nil {
			return fmt.Errorf("failed to reject friend request, %w", err)
		}

		return nil
	})
}

// ListAcceptedIDs returns the IDs of all accepted friends of the user,
// from either side of the relation, ordered by ascending relation ID.
// That order is the display order of the weekly view.
func (g *Graph) ListAcceptedIDs(userID uint) ([]uint, error) {
	var relations []model.FriendRelation

	err := g.db.Where(
		"(user_id = ? OR friend_id = ?) AND status = ?",
		userID, userID, model.RelationAccepted,
	).Order("id asc").Find(&relations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list friends, %w", err)
	}

	ids := make([]uint, 0, len(relations))
	for _, r := range relations {
		if r.UserID == userID {
			ids = append(ids, r.FriendID)
		} else {
			ids = append(ids, r.UserID)
		}
	}

	return ids, nil
}

// Remove deletes the relation between the two users no matter which side
// initiated it or what status it has.
func (g *Graph) Remove(userID, otherID uint) error {
	r := g.db.Where(
		"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
		userID, otherID, otherID, userID,
	).Delete(model.FriendRelation{})
	if r.Error != nil {
		return fmt.Errorf("failed to delete friend relation, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// PendingFor returns the users whose requests to userID are still pending,
// oldest first.
func (g *Graph) PendingFor(userID uint) ([]model.User, error) {
	var relations []model.FriendRelation

	err := g.db.Where("friend_id = ? AND status = ?", userID, model.RelationPending).
		Order("id asc").
		Find(&relations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests, %w", err)
	}

	if len(relations) == 0 {
		return []model.User{}, nil
	}

	senderIDs := make([]uint, 0, len(relations))
	for _, r := range relations {
		senderIDs = append(senderIDs, r.UserID)
	}

	var senders []model.User

	err = g.db.Where("id IN ?", senderIDs).Find(&senders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request senders, %w", err)
	}

	// Keep the request order, Find returns rows in key order
	byID := make(map[uint]model.User, len(senders))
	for _, u := range senders {
		byID[u.ID] = u
	}

	ordered := make([]model.User, 0, len(relations))
	for _, r := range relations {
		if u, ok := byID[r.UserID]; ok {
			ordered = append(ordered, u)
		}
	}

	return ordered, nil
}

// PendingCount returns how many requests are waiting for the user.
func (g *Graph) PendingCount(userID uint) (int64, error) {
	var count int64

	err := g.db.Model(model.FriendRelation{}).
		Where("friend_id = ? AND status = ?", userID, model.RelationPending).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending requests, %w", err)
	}

	return count, nil
}

// NamesByID fetches the usernames for a set of user IDs, used to label
// the weekly view columns.
func (g *Graph) NamesByID(ids []uint) (map[uint]string, error) {
	if len(ids) == 0 {
		return map[uint]string{}, nil
	}

	var users []model.User

	err := g.db.Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch usernames, %w", err)
	}

	names := make(map[uint]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	return names, nil
}
