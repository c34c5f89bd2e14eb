package po

// WebhookSubscription 回调订阅持久化对象，user_uuid 唯一
type WebhookSubscription struct {
	BaseModel
	SubscriptionUUID string     `gorm:"column:subscription_uuid;type:varchar(36);uniqueIndex" json:"subscription_uuid"`
	UserUUID         string     `gorm:"column:user_uuid;type:varchar(36);uniqueIndex" json:"user_uuid"`
	CallbackURL      string     `gorm:"column:callback_url;type:varchar(512)" json:"callback_url"`
	Events           StringList `gorm:"column:events;type:json" json:"events"`
}

// TableName 指定表名
func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}
