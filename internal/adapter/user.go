package adapter

import "github.com/grindsup/trainer-gateway/internal/models"

var (
	userIDKeys        = []string{"id", "userId", "user_id", "idUsuario", "id_usuario", "usuarioId", "usuario_id"}
	userTrainerIDKeys = []string{"trainerId", "trainer_id", "entrenadorId", "entrenador_id", "idEntrenador", "id_entrenador"}
	userEmailKeys     = []string{"email", "correo", "mail", "username", "usuario"}
	userRoleKeys      = []string{"rol", "role", "tipoUsuario", "tipo_usuario", "authority"}
	tokenKeys         = []string{"token", "accessToken", "access_token", "jwt", "idToken", "id_token"}
	userObjectKeys    = []string{"user", "usuario", "perfil", "profile"}
)

// User normalizes the identity record. The trainer id may be embedded directly
// under one of several names or inside a nested entrenador/trainer object.
func User(rec Record) models.User {
	if rec == nil {
		return models.User{}
	}
	user := models.User{
		ID:        Int64Ptr(rec, userIDKeys...),
		TrainerID: Int64Ptr(rec, userTrainerIDKeys...),
		Email:     String(rec, userEmailKeys...),
		FirstName: String(rec, "nombre", "firstName", "first_name", "name", "given_name"),
		LastName:  String(rec, "apellido", "lastName", "last_name", "family_name"),
		Role:      String(rec, userRoleKeys...),
	}
	if user.TrainerID == nil {
		if nested := Nested(rec, trainerObjectKeys...); nested != nil {
			user.TrainerID = Int64Ptr(nested, "id", "idEntrenador", "id_entrenador")
		}
	}
	return user
}

// LoginPayload extracts the backend token and the user record from a login or
// "me" response. When no nested user object exists the payload itself is the user.
func LoginPayload(raw interface{}) (string, Record) {
	rec := Object(raw)
	if rec == nil {
		return "", nil
	}
	token := String(rec, tokenKeys...)
	if user := Nested(rec, userObjectKeys...); user != nil {
		return token, user
	}
	if _, ok := lookup(rec, userIDKeys...); ok {
		return token, rec
	}
	if _, ok := lookup(rec, userEmailKeys...); ok {
		return token, rec
	}
	return token, nil
}
