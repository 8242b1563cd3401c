package model

// Models lists every entity the database schema is migrated from.
var Models = []interface{}{
	&User{}, &Member{}, &Registration{}, &PasswordResetToken{},
}
