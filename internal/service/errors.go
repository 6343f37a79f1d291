package service

import "errors"

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrNotLinked       = errors.New("clinic account is not linked")
	ErrTokenExpired    = errors.New("clinic session expired")
	ErrDentistNotFound = errors.New("dentist not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrSlotTaken       = errors.New("slot was taken by someone else")
	ErrNotActive       = errors.New("appointment is cancelled")
)
