package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessSaveMaterialDefinition = "bottling material definition saved successfully"
	MessageSuccessGetMaterialDefinitions = "bottling material definitions retrieved successfully"

	MessageFailedSaveMaterialDefinition = "failed to save bottling material definition"
	MessageFailedGetMaterialDefinitions = "failed to retrieve bottling material definitions"

	ErrMaterialDefinitionNotFound = errors.New("bottling material definition not found")
)

type (
	BottlingMaterialRequest struct {
		Name     string  `json:"name" validate:"required"`
		Quantity float64 `json:"quantity" validate:"gt=0"`
	}

	SaveMaterialDefinitionRequest struct {
		Name      string                    `json:"name" validate:"required"`
		Materials []BottlingMaterialRequest `json:"materials" validate:"required,min=1,dive"`
	}

	BottlingMaterial struct {
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
	}

	MaterialDefinitionResponse struct {
		ID        string             `json:"id"`
		Name      string             `json:"name"`
		Materials []BottlingMaterial `json:"materials"`
		UpdatedAt time.Time          `json:"updated_at"`
	}
)
