package config

// UploadsConfig содержит лимиты и белые списки для загружаемых файлов.
type UploadsConfig struct {
	MaxFileSize       int64    `yaml:"max_file_size" env:"NOTES_UPLOADS_MAX_FILE_SIZE" env-default:"52428800"`
	MaxFilesPerNote   int      `yaml:"max_files_per_note" env:"NOTES_UPLOADS_MAX_FILES_PER_NOTE" env-default:"10"`
	AllowedExtensions []string `yaml:"allowed_extensions" env:"NOTES_UPLOADS_ALLOWED_EXTENSIONS" env-default:".png,.jpg,.jpeg,.gif,.pdf,.txt,.md,.zip"`
	AllowedMimeTypes  []string `yaml:"allowed_mime_types" env:"NOTES_UPLOADS_ALLOWED_MIME_TYPES" env-default:"image/png,image/jpeg,image/gif,application/pdf,text/plain,text/markdown,application/zip"`

	AvatarMaxFileSize       int64    `yaml:"avatar_max_file_size" env:"NOTES_UPLOADS_AVATAR_MAX_FILE_SIZE" env-default:"2097152"`
	AvatarAllowedExtensions []string `yaml:"avatar_allowed_extensions" env:"NOTES_UPLOADS_AVATAR_ALLOWED_EXTENSIONS" env-default:".png,.jpg,.jpeg"`
	AvatarAllowedMimeTypes  []string `yaml:"avatar_allowed_mime_types" env:"NOTES_UPLOADS_AVATAR_ALLOWED_MIME_TYPES" env-default:"image/png,image/jpeg"`

	MaxTitleLength   int `yaml:"max_title_length" env:"NOTES_MAX_TITLE_LENGTH" env-default:"255"`
	MaxContentLength int `yaml:"max_content_length" env:"NOTES_MAX_CONTENT_LENGTH" env-default:"1048576"`
}
