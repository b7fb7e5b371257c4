package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/dsl"
	"github.com/rushteam/gamerec/rank"
)

var validate = validator.New()

// Validate 校验完整配置，非法配置在启动时拒绝。
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return core.ErrInvalidConfig.Wrap(describe(err))
	}
	if err := c.Recommender.Validate(); err != nil {
		return err
	}
	switch {
	case c.Catalog.Source == "file" && c.Catalog.Path == "":
		return core.ErrInvalidConfig.Wrap(errors.New("catalog.path is required for file source"))
	case c.Catalog.Source == "sqlite" && c.Catalog.Database == "":
		return core.ErrInvalidConfig.Wrap(errors.New("catalog.database is required for sqlite source"))
	case c.Preferences.Backend == "redis" && c.Preferences.Redis.Addr == "":
		return core.ErrInvalidConfig.Wrap(errors.New("preferences.redis.addr is required for redis backend"))
	}
	return nil
}

// Validate 校验打分参数：字段范围、权重和不超过 1、过滤表达式可编译。
func (c RecommenderConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return core.ErrInvalidConfig.Wrap(describe(err))
	}
	if err := c.Weights().Validate(); err != nil {
		return err
	}
	if _, err := rank.ParseBoostMode(c.PreferenceBoostMode); err != nil {
		return err
	}
	if c.MaxTopN > 0 && c.DefaultTopN > c.MaxTopN {
		return core.ErrInvalidConfig.Wrap(fmt.Errorf("default_top_n %d exceeds max_top_n %d", c.DefaultTopN, c.MaxTopN))
	}
	if _, err := dsl.Compile(c.FilterExpr); err != nil {
		return core.ErrInvalidConfig.Wrap(fmt.Errorf("filter_expr: %w", err))
	}
	return nil
}

// describe 把 validator 的错误整理成 "field: rule" 列表
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fe.Namespace()+": "+rule)
	}
	return errors.New(strings.Join(parts, "; "))
}
