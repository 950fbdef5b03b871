// Package apim models the API management resources handed over by a provider.
package apim

import (
	"fmt"
	"net/url"
	"strings"
)

// ResourceID is the provider path of a resource, e.g.
// /subscriptions/x/resourceGroups/y/providers/Microsoft.ApiManagement/service/z/apis/a.
type ResourceID string

// ParseResourceID checks that value is an absolute provider path.
func ParseResourceID(value string) (ResourceID, error) {
	if !strings.HasPrefix(value, "/") || strings.TrimSpace(value) == "/" {
		return "", fmt.Errorf("%q is not a valid resource identifier", value)
	}
	return ResourceID(value), nil
}

func (id ResourceID) String() string { return string(id) }

// Name returns the last segment of the identifier.
func (id ResourceID) Name() string {
	s := strings.TrimRight(string(id), "/")
	return s[strings.LastIndex(s, "/")+1:]
}

// APIContent is the create-or-update form of an API. Every field is optional;
// nil means absent.
type APIContent struct {
	APIRevision                   *string
	APIRevisionDescription        *string
	APIType                       *APIType
	SoapAPIType                   *SoapAPIType
	APIVersion                    *string
	APIVersionDescription         *string
	APIVersionSet                 *VersionSetDetails
	APIVersionSetID               *ResourceID
	AuthenticationSettings        *AuthenticationSettings
	Contact                       *ContactInformation
	Description                   *string
	DisplayName                   *string
	Format                        *ContentFormat
	IsCurrent                     *bool
	License                       *LicenseInformation
	Path                          *string
	ServiceURL                    *url.URL
	SourceAPIID                   *ResourceID
	SubscriptionKeyParameterNames *SubscriptionKeyParameterNames
	SubscriptionRequired          *bool
	TermsOfServiceURL             *url.URL
	Value                         *string
	WsdlSelector                  *WsdlSelector
	Protocols                     []Protocol
}

// VersionSetDetails is a version set embedded in an API.
type VersionSetDetails struct {
	Description       *string
	ID                *string
	Name              *string
	VersionHeaderName *string
	VersioningScheme  *VersioningScheme
	VersionQueryName  *string
}

// AuthenticationSettings lists the authorization servers an API trusts.
type AuthenticationSettings struct {
	OAuth2 *OAuth2Settings
	OpenID *OpenIDSettings
}

type OAuth2Settings struct {
	AuthorizationServerID *string
	Scope                 *string
}

type OpenIDSettings struct {
	OpenIDProviderID          *string
	BearerTokenSendingMethods []BearerTokenSendingMethod
}

type ContactInformation struct {
	Email *string
	Name  *string
	URL   *url.URL
}

type LicenseInformation struct {
	Name *string
	URL  *url.URL
}

type SubscriptionKeyParameterNames struct {
	Header *string
	Query  *string
}

type WsdlSelector struct {
	WsdlEndpointName *string
	WsdlServiceName  *string
}

// APIData is an API as the provider reports it.
type APIData struct {
	ID                            ResourceID
	Name                          APIName
	APIRevision                   *string
	APIRevisionDescription        *string
	APIType                       *APIType
	APIVersion                    *string
	APIVersionDescription         *string
	APIVersionSet                 *VersionSetDetails
	APIVersionSetID               *ResourceID
	AuthenticationSettings        *AuthenticationSettings
	Contact                       *ContactInformation
	Description                   *string
	DisplayName                   *string
	IsCurrent                     *bool
	SubscriptionRequired          *bool
	License                       *LicenseInformation
	Path                          *string
	ServiceURL                    *url.URL
	SourceAPIID                   *ResourceID
	SubscriptionKeyParameterNames *SubscriptionKeyParameterNames
	TermsOfServiceURL             *url.URL
	Protocols                     []Protocol

	// Format is the format the API definition was imported with, when known.
	// It is not part of the content; it only drives specification selection.
	Format *ContentFormat
}

// ToContent maps provider data to its create-or-update content. Protocols are
// always a non-nil collection.
func (d *APIData) ToContent() *APIContent {
	protocols := make([]Protocol, 0, len(d.Protocols))
	protocols = append(protocols, d.Protocols...)
	return &APIContent{
		APIRevision:                   d.APIRevision,
		APIRevisionDescription:        d.APIRevisionDescription,
		APIType:                       d.APIType,
		APIVersion:                    d.APIVersion,
		APIVersionDescription:         d.APIVersionDescription,
		APIVersionSet:                 d.APIVersionSet,
		APIVersionSetID:               d.APIVersionSetID,
		AuthenticationSettings:        d.AuthenticationSettings,
		Contact:                       d.Contact,
		Description:                   d.Description,
		DisplayName:                   d.DisplayName,
		IsCurrent:                     d.IsCurrent,
		SubscriptionRequired:          d.SubscriptionRequired,
		License:                       d.License,
		Path:                          d.Path,
		ServiceURL:                    d.ServiceURL,
		SourceAPIID:                   d.SourceAPIID,
		SubscriptionKeyParameterNames: d.SubscriptionKeyParameterNames,
		TermsOfServiceURL:             d.TermsOfServiceURL,
		Protocols:                     protocols,
	}
}

// NewAPIData builds provider data back from content, as a snapshot stores it.
func NewAPIData(name APIName, c *APIContent) *APIData {
	return &APIData{
		Name:                          name,
		APIRevision:                   c.APIRevision,
		APIRevisionDescription:        c.APIRevisionDescription,
		APIType:                       c.APIType,
		APIVersion:                    c.APIVersion,
		APIVersionDescription:         c.APIVersionDescription,
		APIVersionSet:                 c.APIVersionSet,
		APIVersionSetID:               c.APIVersionSetID,
		AuthenticationSettings:        c.AuthenticationSettings,
		Contact:                       c.Contact,
		Description:                   c.Description,
		DisplayName:                   c.DisplayName,
		IsCurrent:                     c.IsCurrent,
		SubscriptionRequired:          c.SubscriptionRequired,
		License:                       c.License,
		Path:                          c.Path,
		ServiceURL:                    c.ServiceURL,
		SourceAPIID:                   c.SourceAPIID,
		SubscriptionKeyParameterNames: c.SubscriptionKeyParameterNames,
		TermsOfServiceURL:             c.TermsOfServiceURL,
		Protocols:                     c.Protocols,
		Format:                        c.Format,
	}
}

// Ptr returns a pointer to v. Handy for filling optional fields.
func Ptr[T any](v T) *T { return &v }
