package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-graph/internal/model"
	"github.com/d60-Lab/social-graph/internal/repository"
	"github.com/d60-Lab/social-graph/internal/visibility"
)

const (
	threadLimit      = 100
	chatScanLimit    = 1000
	messageNotifyLen = 50
)

// SendMessageRequest 发送私信
type SendMessageRequest struct {
	ReceiverID string  `json:"receiver_id" binding:"required"`
	Content    string  `json:"content" binding:"required,max=4000"`
	ReplyToID  *string `json:"reply_to_id"`
}

// MessageAction 对单条消息或整段会话的操作
type MessageAction string

const (
	ActionEdit      MessageAction = "edit"
	ActionPin       MessageAction = "pin"
	ActionHide      MessageAction = "hide"
	ActionClearChat MessageAction = "clear_chat"
)

// MessageActionRequest clear_chat 使用 user_id，其余使用 message_id
type MessageActionRequest struct {
	Action    MessageAction `json:"action" binding:"required"`
	MessageID string        `json:"message_id"`
	UserID    string        `json:"user_id"`
	Content   string        `json:"content"`
}

type MessageService interface {
	Send(ctx context.Context, senderID string, req *SendMessageRequest) (*model.Message, error)
	// Thread 按时间正序返回双方会话，并将对方发来的消息标记已读
	Thread(ctx context.Context, userID, otherID string) ([]model.Message, error)
	Chats(ctx context.Context, userID string) ([]model.ChatPreview, error)
	Act(ctx context.Context, userID string, req *MessageActionRequest) error
}

type messageService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	blockRepo  repository.BlockRepository
	msgRepo    repository.MessageRepository
	notifyRepo repository.NotificationRepository
	now        Clock
}

func NewMessageService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	blockRepo repository.BlockRepository,
	msgRepo repository.MessageRepository,
	notifyRepo repository.NotificationRepository,
	clock Clock,
) MessageService {
	return &messageService{
		db:         db,
		userRepo:   userRepo,
		blockRepo:  blockRepo,
		msgRepo:    msgRepo,
		notifyRepo: notifyRepo,
		now:        orNow(clock),
	}
}

func (s *messageService) Send(ctx context.Context, senderID string, req *SendMessageRequest) (*model.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if senderID == req.ReceiverID {
		return nil, ErrMessageSelf
	}
	receiver, err := s.userRepo.GetByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	blocked, err := s.blockRepo.Exists(ctx, receiver.ID, senderID)
	if err != nil {
		return nil, err
	}
	if !visibility.CanMessage(blocked, receiver.MessagesEnabled) {
		if blocked {
			return nil, ErrBlockedByReceiver
		}
		return nil, ErrMessagesDisabled
	}
	if req.ReplyToID != nil && *req.ReplyToID == "" {
		req.ReplyToID = nil
	}

	m := &model.Message{SenderID: senderID, ReceiverID: receiver.ID, Content: content, ReplyToID: req.ReplyToID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.msgRepo.WithTx(tx).Create(ctx, m); err != nil {
			return err
		}
		return s.notifyRepo.WithTx(tx).Create(ctx, &model.Notification{
			UserID:     receiver.ID,
			Type:       model.NotifyMessage,
			FromUserID: senderID,
			Content:    truncate(content, messageNotifyLen),
		})
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *messageService) Thread(ctx context.Context, userID, otherID string) ([]model.Message, error) {
	msgs, err := s.msgRepo.Thread(ctx, userID, otherID, threadLimit)
	if err != nil {
		return nil, err
	}
	if _, err := s.msgRepo.MarkRead(ctx, otherID, userID); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return msgs, nil
}

// Chats 每个会话对象取最近一条未隐藏消息
func (s *messageService) Chats(ctx context.Context, userID string) ([]model.ChatPreview, error) {
	recent, err := s.msgRepo.Recent(ctx, userID, chatScanLimit)
	if err != nil {
		return nil, err
	}
	latest := make(map[string]model.Message)
	order := make([]string, 0)
	for _, m := range recent {
		other := m.ReceiverID
		if m.SenderID != userID {
			other = m.SenderID
		}
		if _, ok := latest[other]; ok {
			continue
		}
		latest[other] = m
		order = append(order, other)
	}
	if len(order) == 0 {
		return []model.ChatPreview{}, nil
	}

	users, err := s.userRepo.ListByIDs(ctx, order)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.UserSummary, len(users))
	for i := range users {
		byID[users[i].ID] = users[i].Summary()
	}

	out := make([]model.ChatPreview, 0, len(order))
	for _, other := range order {
		unread, err := s.msgRepo.UnreadFrom(ctx, other, userID)
		if err != nil {
			return nil, err
		}
		u, ok := byID[other]
		if !ok {
			u = model.UserSummary{ID: other}
		}
		out = append(out, model.ChatPreview{User: u, LastMessage: latest[other], UnreadCount: unread})
	}
	return out, nil
}

func (s *messageService) Act(ctx context.Context, userID string, req *MessageActionRequest) error {
	switch req.Action {
	case ActionEdit:
		content := strings.TrimSpace(req.Content)
		if content == "" {
			return ErrEmptyMessage
		}
		n, err := s.msgRepo.Edit(ctx, req.MessageID, userID, content, s.now())
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrMessageNotFound
		}
		return nil
	case ActionPin:
		n, err := s.msgRepo.TogglePin(ctx, req.MessageID, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrMessageNotFound
		}
		return nil
	case ActionHide:
		m, err := s.msgRepo.GetByID(ctx, req.MessageID)
		if err != nil {
			return notFoundAs(err, ErrMessageNotFound)
		}
		switch userID {
		case m.SenderID:
			_, err = s.msgRepo.HideForSender(ctx, m.ID)
		case m.ReceiverID:
			_, err = s.msgRepo.HideForReceiver(ctx, m.ID)
		default:
			return ErrMessageNotFound
		}
		return err
	case ActionClearChat:
		if req.UserID == "" {
			return ErrUserNotFound
		}
		return s.msgRepo.ClearChat(ctx, userID, req.UserID)
	default:
		return ErrUnknownAction
	}
}
