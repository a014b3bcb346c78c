package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message），可携带底层原因（Cause）
//   - 支持错误检查函数（IsXXX），调用方不必匹配错误文本
//
// 两类必须严格区分的情况：
//   - "查无数据"：NOT_FOUND，或合法的空结果（空 slice / 空 map，不是错误）
//   - "存储不可用"：UNAVAILABLE / INTERNAL_ERROR，必须原样向调用方传播，
//     绝不能折叠成空结果
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "INVALID_CONFIG"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "config", "recall"）
	Cause   error  // 底层原因（可为 nil）
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound      = "NOT_FOUND"      // 资源不存在
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 存储/服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInvalidConfig = "INVALID_CONFIG" // 配置缺失或越界（构造期致命错误）
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore  = "store"  // 存储模块
	ModuleConfig = "config" // 配置模块
	ModuleRecall = "recall" // 召回/推荐模块
)

var (
	// ErrStoreNotFound 表示 key 不存在（不是故障）
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
)

// NewStoreError 把底层存储驱动的故障包装为 StoreError。
// op 说明出错的操作，便于定位（如 "redis HINCRBY"）。
func NewStoreError(op string, cause error) *DomainError {
	return &DomainError{
		Module:  ModuleStore,
		Code:    ErrorCodeUnavailable,
		Message: "store: " + op + " failed",
		Cause:   cause,
	}
}

// NewConfigError 创建构造期配置错误。
func NewConfigError(message string) *DomainError {
	return NewDomainError(ModuleConfig, ErrorCodeInvalidConfig, "config: "+message)
}

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}

// IsStoreError 检查错误是否为存储故障（不含 NOT_FOUND）
func IsStoreError(err error) bool {
	domainErr := GetDomainError(err)
	if domainErr == nil || domainErr.Module != ModuleStore {
		return false
	}
	return domainErr.Code == ErrorCodeUnavailable || domainErr.Code == ErrorCodeInternalError
}

// IsConfigError 检查错误是否为构造期配置错误
func IsConfigError(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleConfig && domainErr.Code == ErrorCodeInvalidConfig
}
