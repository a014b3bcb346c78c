package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 是引擎的构造期配置。
// 构造时校验一次，之后不可变；不提供静默默认值。
type Config struct {
	// MinUserSimilarity 用户相似度阈值，取值 [0.0, 1.0]
	MinUserSimilarity float64 `yaml:"min_user_similarity" json:"min_user_similarity"`

	// MinItemSimilarity 物品相似度阈值，取值 [0.0, 1.0]
	MinItemSimilarity float64 `yaml:"min_item_similarity" json:"min_item_similarity"`
}

// Validate 校验阈值范围。越界返回配置错误（构造期致命）。
func (c Config) Validate() error {
	if c.MinUserSimilarity < 0 || c.MinUserSimilarity > 1 {
		return NewConfigError(fmt.Sprintf("min_user_similarity must be in [0.0, 1.0], got %v", c.MinUserSimilarity))
	}
	if c.MinItemSimilarity < 0 || c.MinItemSimilarity > 1 {
		return NewConfigError(fmt.Sprintf("min_item_similarity must be in [0.0, 1.0], got %v", c.MinItemSimilarity))
	}
	return nil
}

// fileConfig 用指针字段区分"缺失"与"显式的 0.0"。
type fileConfig struct {
	MinUserSimilarity *float64 `yaml:"min_user_similarity"`
	MinItemSimilarity *float64 `yaml:"min_item_similarity"`
}

// LoadConfig 从 YAML 文件加载引擎配置。
// 两个阈值都必须显式出现在文件中，缺失视为配置错误。
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, NewConfigError("read file: " + err.Error())
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, NewConfigError("parse yaml: " + err.Error())
	}

	if fc.MinUserSimilarity == nil {
		return Config{}, NewConfigError("min_user_similarity is required")
	}
	if fc.MinItemSimilarity == nil {
		return Config{}, NewConfigError("min_item_similarity is required")
	}

	cfg := Config{
		MinUserSimilarity: *fc.MinUserSimilarity,
		MinItemSimilarity: *fc.MinItemSimilarity,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
