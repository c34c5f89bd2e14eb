package errno

import "errors"

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
	// permanent failures are never retried by the worker loop
	permanent bool
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

// Permanent returns a copy marked terminal: re-running the job cannot succeed.
func (e *Errno) Permanent() *Errno {
	return &Errno{Code: e.Code, Message: e.Message, permanent: true}
}

// IsPermanent reports whether err (or any error it wraps) is a terminal Errno.
func IsPermanent(err error) bool {
	var e *Errno
	if errors.As(err, &e) {
		return e.permanent
	}
	return false
}

// IsNotFound reports whether err is one of the not-found Errno codes.
func IsNotFound(err error) bool {
	var e *Errno
	if errors.As(err, &e) {
		return e.Code == ErrNotFound.Code || (e.Code >= 20404 && e.Code < 20410)
	}
	return false
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrParameterInvalid = &Errno{Code: 400, Message: "Invalid parameter %s"}
	ErrInvalidParam     = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrUnauthorized     = &Errno{Code: 401, Message: "Unauthorized"}
	ErrNotFound         = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// 业务错误码
	ErrMissingParam        = &Errno{Code: 20001, Message: "Missing required parameter"}
	ErrFileNameIllegal     = &Errno{Code: 20002, Message: "File name is illegal"}
	ErrFileSizeIllegal     = &Errno{Code: 20003, Message: "File size is illegal"}
	ErrUploadIllegal       = &Errno{Code: 20004, Message: "Upload file is illegal"}
	ErrUserUUIDRequired    = &Errno{Code: 20005, Message: "User UUID is required"}
	ErrMediaKindIllegal    = &Errno{Code: 20006, Message: "Media kind is illegal"}
	ErrCallbackURLRequired = &Errno{Code: 20007, Message: "Callback URL is required"}
	ErrTaskStatusIllegal   = &Errno{Code: 20008, Message: "Task status transition is illegal"}

	// not-found 错误码（20404 - 20409）
	ErrRawMediaNotFound         = &Errno{Code: 20404, Message: "Raw media not found"}
	ErrConvertedMediaNotFound   = &Errno{Code: 20405, Message: "Converted media not found"}
	ErrParentVideoNotFound      = &Errno{Code: 20406, Message: "Parent video not found"}
	ErrWebhookSubscriberUnknown = &Errno{Code: 20407, Message: "Webhook subscription not found"}

	// 外部依赖错误码
	ErrStorageOperation   = &Errno{Code: 20501, Message: "Object storage operation failed"}
	ErrProcessorOperation = &Errno{Code: 20502, Message: "Media processing operation failed"}
	ErrQueueOperation     = &Errno{Code: 20503, Message: "Queue transport operation failed"}
	ErrWebhookDelivery    = &Errno{Code: 20504, Message: "Webhook delivery failed"}

	// 持久化一致性错误码
	ErrUpdateMissingRow = &Errno{Code: 20601, Message: "Update targets a missing row"}
)
