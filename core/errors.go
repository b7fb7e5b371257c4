package core

import "errors"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）、消息（Message）和模块（Module）
//   - errors.Is 按 Module + Code 比较，可透过 %w 包装识别
//
// 空结果（没有拥有的游戏、候选为空）不是错误；只有外部依赖失败和配置错误会走到这里。
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "UNAVAILABLE"）
	Message string // 错误消息
	Module  string // 模块名称（如 "ownership", "preference"）
	Err     error  // 底层错误（可选）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is 让 errors.Is(err, ErrOwnershipUnavailable) 对包装后的同类错误也成立。
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Code == t.Code
}

// Wrap 基于当前错误生成一个带底层原因的新错误，原 sentinel 不变。
func (e *DomainError) Wrap(err error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, Module: e.Module, Err: err}
}

// IsDomainError 检查错误链上是否有 DomainError
func IsDomainError(err error) bool {
	return GetDomainError(err) != nil
}

// GetDomainError 获取错误链上的第一个 DomainError，没有则返回 nil
func GetDomainError(err error) *DomainError {
	var de *DomainError
	if errors.As(err, &de) {
		return de
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
	ErrorCodeNotSupported  = "NOT_SUPPORTED"  // 操作不支持
	ErrorCodeUnavailable   = "UNAVAILABLE"    // 外部服务不可用
	ErrorCodeInvalidInput  = "INVALID_INPUT"  // 输入无效
	ErrorCodeInternalError = "INTERNAL_ERROR" // 内部错误
)

// 模块名称常量
const (
	ModuleStore      = "store"
	ModuleCatalog    = "catalog"
	ModuleFeature    = "feature"
	ModuleModel      = "model"
	ModuleOwnership  = "ownership"
	ModulePreference = "preference"
	ModuleConfig     = "config"
)

var (
	// ErrNoOwnedGames 表示外部服务没有返回任何游戏（库为空、资料私密或 ID 无效）
	ErrNoOwnedGames = NewDomainError(ModuleOwnership, ErrorCodeNotFound, "no games found or steam id invalid")

	// ErrOwnershipUnavailable 表示无法访问拥有列表的数据源
	ErrOwnershipUnavailable = NewDomainError(ModuleOwnership, ErrorCodeUnavailable, "ownership: upstream unavailable")

	// ErrPreferenceUnavailable 表示反馈存储读写失败
	ErrPreferenceUnavailable = NewDomainError(ModulePreference, ErrorCodeUnavailable, "preference: store unavailable")

	// ErrInvalidConfig 表示配置不合法，应在启动时拒绝
	ErrInvalidConfig = NewDomainError(ModuleConfig, ErrorCodeInvalidInput, "config: invalid")
)

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	if de := GetDomainError(err); de != nil {
		return de.Code == ErrorCodeNotFound
	}
	return false
}

// IsUnavailable 检查错误是否为 UNAVAILABLE
func IsUnavailable(err error) bool {
	if de := GetDomainError(err); de != nil {
		return de.Code == ErrorCodeUnavailable
	}
	return false
}

// IsInvalidInput 检查错误是否为 INVALID_INPUT
func IsInvalidInput(err error) bool {
	if de := GetDomainError(err); de != nil {
		return de.Code == ErrorCodeInvalidInput
	}
	return false
}
