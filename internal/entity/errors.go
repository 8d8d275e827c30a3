package entity

import "errors"

var (
	ErrLeadNotFound     = errors.New("lead not found or access denied")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrCustomerExists   = errors.New("customer already exists")
	ErrDealNotFound     = errors.New("deal not found")
)
