package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los mensajes se muestran tal cual al usuario.
var (
	ErrNotConfigured            = errors.New("el almacenamiento no está configurado")
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
	ErrInvalidCredentials       = errors.New("Credenciales incorrectas")
	ErrDuplicateEmail           = errors.New("El correo electrónico ya está registrado")
	ErrImmutableSuperAdminEmail = errors.New("No se puede cambiar el correo del superadministrador")
	ErrImmutableSuperAdminRole  = errors.New("No se puede cambiar el rol del superadministrador")
	ErrSuperAdminProtected      = errors.New("No se puede eliminar el superadministrador principal")
	ErrLastUserProtected        = errors.New("No puedes eliminar el último usuario del sistema")
	ErrDuplicateDNI             = errors.New("Ya existe un jugador con ese DNI")
	ErrTeamNotFound             = errors.New("El equipo seleccionado no existe")
	ErrTeamInUse                = errors.New("No se puede eliminar un equipo con jugadores o administradores asignados")
	ErrImageTooLarge            = errors.New("La imagen es demasiado grande. El tamaño máximo permitido es 5MB.")
	ErrUnsupportedImage         = errors.New("Formato de imagen no soportado")
	ErrUploadFailed             = errors.New("Error al subir la imagen")
	ErrOperationTimeout         = errors.New("La operación tardó demasiado; verifica si los cambios se guardaron")
)
