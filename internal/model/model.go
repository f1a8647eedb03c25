package model

// All 返回需要迁移的模型
func All() []interface{} {
	return []interface{}{
		&User{}, &Session{}, &Follow{}, &Block{},
		&Post{}, &Comment{}, &Like{}, &Repost{},
		&Message{}, &Notification{}, &Story{},
		&Report{}, &VerificationRequest{},
	}
}
