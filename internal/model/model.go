package model

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&SessionParticipant{},
		&Message{},
		&Reflection{},
	}
}
