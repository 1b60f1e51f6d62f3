package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/invoicemonk/backend/internal/domain/directory"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// DirectoryService manages the tenant's business profile and client
// directory. Changes here never propagate to issued documents: those read
// from their embedded snapshots.
type DirectoryService struct {
	profileRepo directory.BusinessProfileRepository
	clientRepo  directory.ClientRepository
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(profileRepo directory.BusinessProfileRepository, clientRepo directory.ClientRepository) *DirectoryService {
	return &DirectoryService{
		profileRepo: profileRepo,
		clientRepo:  clientRepo,
	}
}

// CreateBusinessProfile creates the tenant's single business profile
func (s *DirectoryService) CreateBusinessProfile(ctx context.Context, tenantID uuid.UUID, req *CreateBusinessProfileRequest) (*BusinessProfileResponse, error) {
	if _, err := s.profileRepo.FindForTenant(ctx, tenantID); err == nil {
		return nil, shared.NewDomainError("PROFILE_EXISTS", "This tenant already has a business profile")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	profile, err := directory.NewBusinessProfile(tenantID, req.LegalName, req.TaxID, req.Email, req.Country)
	if err != nil {
		return nil, err
	}
	if req.TradeName != "" {
		if err := profile.Update(req.LegalName, req.TradeName, req.TaxID); err != nil {
			return nil, err
		}
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	return ToBusinessProfileResponse(profile), nil
}

// GetBusinessProfile returns the tenant's profile
func (s *DirectoryService) GetBusinessProfile(ctx context.Context, tenantID uuid.UUID) (*BusinessProfileResponse, error) {
	profile, err := s.profileRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return ToBusinessProfileResponse(profile), nil
}

// UpdateBusinessProfile applies a partial update to the tenant's profile
func (s *DirectoryService) UpdateBusinessProfile(ctx context.Context, tenantID uuid.UUID, req *UpdateBusinessProfileRequest) (*BusinessProfileResponse, error) {
	profile, err := s.profileRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if req.LegalName != nil || req.TradeName != nil || req.TaxID != nil {
		legalName := profile.LegalName
		tradeName := profile.TradeName
		taxID := profile.TaxID
		if req.LegalName != nil {
			legalName = *req.LegalName
		}
		if req.TradeName != nil {
			tradeName = *req.TradeName
		}
		if req.TaxID != nil {
			taxID = *req.TaxID
		}
		if err := profile.Update(legalName, tradeName, taxID); err != nil {
			return nil, err
		}
	}

	if req.Email != nil || req.Phone != nil {
		email := profile.Email
		phone := profile.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := profile.SetContact(email, phone); err != nil {
			return nil, err
		}
	}

	if req.AddressLine1 != nil || req.AddressLine2 != nil || req.City != nil ||
		req.Region != nil || req.PostalCode != nil || req.Country != nil {
		line1 := coalesce(req.AddressLine1, profile.AddressLine1)
		line2 := coalesce(req.AddressLine2, profile.AddressLine2)
		city := coalesce(req.City, profile.City)
		region := coalesce(req.Region, profile.Region)
		postalCode := coalesce(req.PostalCode, profile.PostalCode)
		country := coalesce(req.Country, profile.Country)
		if err := profile.SetAddress(line1, line2, city, region, postalCode, country); err != nil {
			return nil, err
		}
	}

	if req.Jurisdiction != nil {
		if err := profile.SetJurisdiction(*req.Jurisdiction); err != nil {
			return nil, err
		}
	}

	if req.PaymentTermsDays != nil || req.PaymentInstructions != nil {
		days := profile.PaymentTermsDays
		instructions := profile.PaymentInstructions
		if req.PaymentTermsDays != nil {
			days = *req.PaymentTermsDays
		}
		if req.PaymentInstructions != nil {
			instructions = *req.PaymentInstructions
		}
		if err := profile.SetPaymentTerms(days, instructions); err != nil {
			return nil, err
		}
	}

	if err := s.profileRepo.SaveWithLock(ctx, profile); err != nil {
		return nil, err
	}

	return ToBusinessProfileResponse(profile), nil
}

// MarkEmailVerified records a completed email verification for the profile
func (s *DirectoryService) MarkEmailVerified(ctx context.Context, tenantID uuid.UUID) (*BusinessProfileResponse, error) {
	profile, err := s.profileRepo.FindForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	profile.MarkEmailVerified()
	if err := s.profileRepo.SaveWithLock(ctx, profile); err != nil {
		return nil, err
	}
	return ToBusinessProfileResponse(profile), nil
}

// CreateClient adds a client to the tenant's directory
func (s *DirectoryService) CreateClient(ctx context.Context, tenantID uuid.UUID, req *CreateClientRequest) (*ClientResponse, error) {
	client, err := directory.NewClient(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Email != "" || req.TaxID != "" {
		if err := client.Update(req.Name, req.Email, req.TaxID); err != nil {
			return nil, err
		}
	}
	if req.AddressLine1 != "" || req.City != "" || req.Country != "" {
		if err := client.SetAddress(req.AddressLine1, req.AddressLine2, req.City, req.Region, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}
	if req.Phone != "" {
		if err := client.SetPhone(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Notes != "" {
		client.SetNotes(req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	return ToClientResponse(client), nil
}

// GetClient returns a client scoped to the tenant
func (s *DirectoryService) GetClient(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	return ToClientResponse(client), nil
}

// ListClients returns a paginated slice of the tenant's clients
func (s *DirectoryService) ListClients(ctx context.Context, tenantID uuid.UUID, query *ListClientsQuery) (*shared.Paginated[*ClientResponse], error) {
	filter := directory.ClientFilter{
		Filter: shared.Filter{
			Page:     query.Page,
			PageSize: query.PageSize,
			OrderBy:  query.SortBy,
			OrderDir: query.SortOrder,
		},
		Search: query.Search,
	}
	if query.Status != "" {
		status := directory.ClientStatus(query.Status)
		filter.Status = &status
	}

	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.clientRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		items[i] = ToClientResponse(c)
	}

	result := shared.NewPaginated(items, total, query.Page, query.PageSize)
	return &result, nil
}

// UpdateClient applies a partial update to a client
func (s *DirectoryService) UpdateClient(ctx context.Context, tenantID, clientID uuid.UUID, req *UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Email != nil || req.TaxID != nil {
		name := coalesce(req.Name, client.Name)
		email := coalesce(req.Email, client.Email)
		taxID := coalesce(req.TaxID, client.TaxID)
		if err := client.Update(name, email, taxID); err != nil {
			return nil, err
		}
	}

	if req.AddressLine1 != nil || req.AddressLine2 != nil || req.City != nil ||
		req.Region != nil || req.PostalCode != nil || req.Country != nil {
		line1 := coalesce(req.AddressLine1, client.AddressLine1)
		line2 := coalesce(req.AddressLine2, client.AddressLine2)
		city := coalesce(req.City, client.City)
		region := coalesce(req.Region, client.Region)
		postalCode := coalesce(req.PostalCode, client.PostalCode)
		country := coalesce(req.Country, client.Country)
		if err := client.SetAddress(line1, line2, city, region, postalCode, country); err != nil {
			return nil, err
		}
	}

	if req.Phone != nil {
		if err := client.SetPhone(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		client.SetNotes(*req.Notes)
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}

	return ToClientResponse(client), nil
}

// ArchiveClient hides a client from new documents without deleting history
func (s *DirectoryService) ArchiveClient(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	if err := client.Archive(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}
	return ToClientResponse(client), nil
}

// RestoreClient reactivates an archived client
func (s *DirectoryService) RestoreClient(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}
	if err := client.Restore(); err != nil {
		return nil, err
	}
	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}
	return ToClientResponse(client), nil
}

func coalesce(override *string, current string) string {
	if override != nil {
		return *override
	}
	return current
}
