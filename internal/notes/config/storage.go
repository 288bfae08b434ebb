package config

// StorageConfig содержит настройки файлового хранилища.
type StorageConfig struct {
	AttachmentsDir string `yaml:"attachments_dir" env:"NOTES_STORAGE_ATTACHMENTS_DIR" env-default:"data/attachments"`
	AvatarsDir     string `yaml:"avatars_dir" env:"NOTES_STORAGE_AVATARS_DIR" env-default:"data/avatars"`
}
