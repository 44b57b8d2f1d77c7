package repository

import "errors"

// ErrNotFound : l'enregistrement demandé n'existe pas (ou plus)
var ErrNotFound = errors.New("enregistrement introuvable")
