package service

import (
	"PhonePortal/internal/domain/models"
	"PhonePortal/internal/domain/repository"
)

// SalesForecaster turns a parsed sales series into history, forecast and summary.
type SalesForecaster interface {
	Forecast(series models.SalesSeries, freq repository.Frequency, periods int) models.SalesForecast
}
