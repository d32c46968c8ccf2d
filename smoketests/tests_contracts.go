package smoketests

import (
	"fmt"

	"github.com/feco/api-smoke-tests/servicedef"
)

const contractSigner = "Smoke Hotel Manager"

func smokeContractPricing() servicedef.ContractPricing {
	return servicedef.ContractPricing{
		BasePrices:      servicedef.PriceGrid{servicedef.SurfaceBoth: 65, servicedef.SurfaceCarpet: 45, servicedef.SurfaceTile: 40},
		PenaltyPrices:   servicedef.PriceGrid{servicedef.SurfaceBoth: 75, servicedef.SurfaceCarpet: 55, servicedef.SurfaceTile: 50},
		ContractPrices:  servicedef.PriceGrid{servicedef.SurfaceBoth: 65, servicedef.SurfaceCarpet: 45, servicedef.SurfaceTile: 40},
		AdvantagePrices: servicedef.PriceGrid{servicedef.SurfaceBoth: 60, servicedef.SurfaceCarpet: 42, servicedef.SurfaceTile: 38},
		SqftPrices:      servicedef.PriceGrid{servicedef.SurfaceCarpet: 0, servicedef.SurfaceTile: 0},
	}
}

// DoContractsAndPricing reads the organization's pricing defaults, then creates a contract,
// looks it up and accepts it through its public token the way a hotel would, and deletes it.
func DoContractsAndPricing(t *T) error {
	hotelID, err := t.Shared().RequireString(KeyHotelID)
	if err != nil {
		return err
	}
	api := t.API()

	r, err := api.Get("get pricing defaults", "/api/v1/pricing/defaults")
	if err != nil {
		return err
	}
	if r.Get("defaults", "organizationId").IsNull() {
		return r.Fail("pricing defaults missing organizationId")
	}

	r, err = api.Create("create contract", fmt.Sprintf("/api/v1/hotels/%s/contracts", hotelID), servicedef.ContractParams{
		HotelID:             hotelID,
		HotelName:           "Smoke Contract Hotel",
		Contact:             servicedef.ContractContact{Name: "Jane Smith", Email: "jane@hotel.com", CC: []string{"ops@hotel.com"}},
		Pricing:             smokeContractPricing(),
		RoomsMinPerSession:  10,
		RoomsMaxPerSession:  20,
		RoomsPerSession:     15,
		Frequency:           "YEARLY",
		SurfaceType:         servicedef.SurfaceBoth,
		AppliedTier:         "Contract",
		AppliedPricePerRoom: 65,
		TotalPerSession:     975,
		Notes:               "Smoke contract notes",
		SentAt:              t.Now().Format(dateFormat),
	})
	if err != nil {
		return err
	}
	contract, err := r.Strings("contract", "id", "token")
	if err != nil {
		return err
	}
	contractID, token := contract[0], contract[1]

	r, err = api.Get("list contracts", fmt.Sprintf("/api/v1/hotels/%s/contracts", hotelID))
	if err != nil {
		return err
	}
	if err := r.RequireListContains("contracts", "id", contractID); err != nil {
		return err
	}

	r, err = api.Call("get contract by token", "GET", "/api/v1/contracts/by-token/"+token, nil, false)
	if err != nil {
		return err
	}
	if err := r.RequireEqual(contractID, "contract", "id"); err != nil {
		return err
	}

	r, err = api.Call("accept contract by token", "POST", fmt.Sprintf("/api/v1/contracts/by-token/%s/accept", token),
		servicedef.AcceptContractParams{SignedBy: contractSigner}, false)
	if err != nil {
		return err
	}
	if err := r.RequireEqual(servicedef.StatusAccepted, "contract", "status"); err != nil {
		return err
	}
	if err := r.RequireEqual(contractSigner, "contract", "signedBy"); err != nil {
		return err
	}

	return api.Delete("delete contract", "/api/v1/contracts/"+contractID)
}
