package services

// User-facing texts. They are rendered verbatim by every presenter.
const (
	textNotConnected = "No hay conexión con el servidor"

	textProbing          = "Verificando conexión con el servidor..."
	textConnected        = "¡Conexión exitosa con el servidor! ¿En qué puedo ayudarte?"
	textProbeServerError = "El servidor respondió con un error. Código: %d"
	textProbeUnreachable = "No se pudo conectar al servidor. Asegúrate de que el servidor esté ejecutándose en %s"

	textChatFailed = "Error al conectar con el servidor: "
	textNoReply    = "No recibí una respuesta válida del servidor"
	textChatBusy   = "Espera a que termine la respuesta anterior"

	textUploading    = "Subiendo %s..."
	textUploadOK     = "%s subido correctamente"
	textUploadFailed = "Error al subir %s: %s"
	textUploadBusy   = "%s ya se está subiendo"
	textUploaded     = "He subido el documento: %s"

	textDeleting         = "Eliminando documento: %s..."
	textDeleted          = "He eliminado el documento: %s"
	textDeleteFailed     = "Error al eliminar el documento %s: %s"
	textDeleteStatus     = "Error %d al eliminar el archivo"
	textDeleteBusy       = "Ya se está eliminando el documento %s"
	textDeleteVanished   = "el documento ya no está en la lista"
	textPersistFailed    = "No se pudo guardar la lista de documentos: %s"
	textDocumentNotFound = "documento no encontrado"
)
