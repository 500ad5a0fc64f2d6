package config

// AdminConfig содержит реквизиты первой административной учетной записи.
// Используется только командой createadmin.
type AdminConfig struct {
	Name     string `yaml:"name" env:"AUTH_ADMIN_NAME"`
	Email    string `yaml:"email" env:"AUTH_ADMIN_EMAIL"`
	Password string `yaml:"password" env:"AUTH_ADMIN_PASSWORD"`
}

// Provided сообщает, заданы ли все реквизиты администратора.
func (a *AdminConfig) Provided() bool {
	return a.Name != "" && a.Email != "" && a.Password != ""
}
