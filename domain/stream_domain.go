package domain

import "errors"

const (
	CollectionInventory           = "inventory"
	CollectionRecipes             = "recipes"
	CollectionMaterialDefinitions = "bottlingMaterialDefinitions"
	CollectionDistillationLogs    = "distillationLogs"
	CollectionBottlingLogs        = "bottlingLogs"
)

var (
	MessageFailedSubscribe = "failed to subscribe"

	ErrUnknownCollection = errors.New("unknown collection")
)
