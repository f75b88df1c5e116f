package meshopt

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadOptions 从yaml文件读取流水线配置，缺省字段使用默认值
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return DefaultOptions(), err
	}
	return opts, nil
}

// SaveOptions 将流水线配置写回yaml文件
func SaveOptions(path string, opts Options) error {
	data, err := yaml.Marshal(&opts)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
