//go:build wireinject
// +build wireinject

package di

import (
	"StockAccess/pkg/config"
	"StockAccess/pkg/server"

	"github.com/google/wire"
)

var readSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideMongoClient,
	ProvideSymbolCache,
	ProvidePriceReaders,
	ProvidePricesUseCase,
	ProvideTushareClient,
	ProvideCalendarUseCase,
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		readSet,
		ProvideReferenceUseCase,
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeToolkit wires the readers and use cases for the command line tool.
func InitializeToolkit(cfg *config.Config) (*Toolkit, func(), error) {
	wire.Build(
		readSet,
		ProvideExportUseCase,
		ProvideToolkit,
	)
	return nil, nil, nil
}
