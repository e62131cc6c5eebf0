package dto

type EnviarReporteRequest struct {
	Fecha        string  `json:"fecha"        validate:"omitempty,datetime=2006-01-02"`
	CajaID       *string `json:"caja_id"      validate:"omitempty,uuid"`
	Destinatario string  `json:"destinatario" validate:"omitempty,email"`
}

type EnviarReporteResponse struct {
	Mensaje string `json:"mensaje"`
	Fecha   string `json:"fecha"`
}
