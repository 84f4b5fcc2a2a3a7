package locatormocks

//go:generate go run -v go.uber.org/mock/mockgen -destination=locatormocks.go -package=locatormocks loginsuite/internal/locator Element,Page
