package gateway_webhook

import (
	"context"

	processGatewayEvent "github.com/m04kA/SMC-ReservationService/internal/usecase/process_gateway_event"
)

type ProcessGatewayEventUseCase interface {
	Execute(ctx context.Context, req *processGatewayEvent.Request) (*processGatewayEvent.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
