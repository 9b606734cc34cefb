package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Source --dir ../domain/footballdata --output domain/footballdata --outpkg footballdatamock --filename source_mock.go
