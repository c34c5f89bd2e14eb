package vo

// TaskStatus 单个异步转换任务的状态
type TaskStatus string

const (
	// TaskStatusPending 待处理
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusInProgress 处理中
	TaskStatusInProgress TaskStatus = "in_progress"
	// TaskStatusCompleted 已完成
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed 失败
	TaskStatusFailed TaskStatus = "failed"
)

// IsValid 检查状态是否有效
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// String 返回状态字符串
func (s TaskStatus) String() string {
	return string(s)
}

// CanTransitionTo 检查是否可以转换到目标状态。
// failed 和 completed 都可以回到 in_progress：队列重试和重复投递会重新执行任务，
// 产物按替换语义落库，重跑是安全的。同状态写入允许，崩溃后重投会原样再写一次。
func (s TaskStatus) CanTransitionTo(target TaskStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case TaskStatusPending:
		return target == TaskStatusInProgress
	case TaskStatusInProgress:
		return target == TaskStatusCompleted || target == TaskStatusFailed
	case TaskStatusFailed:
		return target == TaskStatusInProgress
	case TaskStatusCompleted:
		return target == TaskStatusInProgress
	default:
		return false
	}
}
