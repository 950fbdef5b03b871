package codec

import (
	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/document"
)

// EncodeAPI writes the content of apiInformation.json. Keys follow the
// provider's wire names.
func EncodeAPI(c *apim.APIContent) *document.Object {
	obj := document.New().
		PutString("apiRevision", c.APIRevision).
		PutString("apiRevisionDescription", c.APIRevisionDescription)
	document.PutText(obj, "apiType", c.SoapAPIType)
	obj.PutString("apiVersion", c.APIVersion).
		PutString("apiVersionDescription", c.APIVersionDescription).
		PutObject("apiVersionSet", encodeVersionSetDetails(c.APIVersionSet))
	document.PutText(obj, "apiVersionSetId", c.APIVersionSetID)
	obj.PutObject("authenticationSettings", encodeAuthenticationSettings(c.AuthenticationSettings)).
		PutObject("contact", encodeContact(c.Contact)).
		PutString("description", c.Description).
		PutString("displayName", c.DisplayName)
	document.PutText(obj, "format", c.Format)
	obj.PutBool("isCurrent", c.IsCurrent).
		PutObject("license", encodeLicense(c.License)).
		PutString("path", c.Path).
		PutURL("serviceUrl", c.ServiceURL)
	document.PutText(obj, "sourceApiId", c.SourceAPIID)
	obj.PutObject("subscriptionKeyParameterNames", encodeSubscriptionKeyParameterNames(c.SubscriptionKeyParameterNames)).
		PutBool("subscriptionRequired", c.SubscriptionRequired).
		PutURL("termsOfServiceUrl", c.TermsOfServiceURL)
	document.PutText(obj, "type", c.APIType)
	obj.PutString("value", c.Value).
		PutObject("wsdlSelector", encodeWsdlSelector(c.WsdlSelector)).
		PutArray("protocols", document.TextArray(c.Protocols))
	return obj
}

// DecodeAPI reads the content of apiInformation.json.
func DecodeAPI(obj *document.Object, opts ...DecodeOption) (*apim.APIContent, error) {
	r := newReader(obj, opts)
	c := &apim.APIContent{
		APIRevision:                   r.String("apiRevision"),
		APIRevisionDescription:        r.String("apiRevisionDescription"),
		APIType:                       document.ParseField(r, "type", apim.ParseAPIType),
		SoapAPIType:                   document.ParseField(r, "apiType", apim.ParseSoapAPIType),
		APIVersion:                    r.String("apiVersion"),
		APIVersionDescription:         r.String("apiVersionDescription"),
		APIVersionSet:                 decodeVersionSetDetails(r.Object("apiVersionSet")),
		APIVersionSetID:               document.ParseField(r, "apiVersionSetId", resourceID),
		AuthenticationSettings:        decodeAuthenticationSettings(r.Object("authenticationSettings")),
		Contact:                       decodeContact(r.Object("contact")),
		Description:                   r.String("description"),
		DisplayName:                   r.String("displayName"),
		Format:                        document.ParseField(r, "format", apim.ParseContentFormat),
		IsCurrent:                     r.Bool("isCurrent"),
		License:                       decodeLicense(r.Object("license")),
		Path:                          r.String("path"),
		ServiceURL:                    r.URL("serviceUrl"),
		SourceAPIID:                   document.ParseField(r, "sourceApiId", resourceID),
		SubscriptionKeyParameterNames: decodeSubscriptionKeyParameterNames(r.Object("subscriptionKeyParameterNames")),
		SubscriptionRequired:          r.Bool("subscriptionRequired"),
		TermsOfServiceURL:             r.URL("termsOfServiceUrl"),
		Value:                         r.String("value"),
		WsdlSelector:                  decodeWsdlSelector(r.Object("wsdlSelector")),
		Protocols:                     decodeEnumArray(r, "protocols", apim.ParseProtocol),
	}
	if err := r.Close(); err != nil {
		return nil, err
	}
	return c, nil
}

func encodeVersionSetDetails(d *apim.VersionSetDetails) *document.Object {
	if d == nil {
		return nil
	}
	obj := document.New().
		PutString("description", d.Description).
		PutString("id", d.ID).
		PutString("name", d.Name).
		PutString("versionHeaderName", d.VersionHeaderName)
	document.PutText(obj, "versioningScheme", d.VersioningScheme)
	return obj.PutString("versionQueryName", d.VersionQueryName)
}

func decodeVersionSetDetails(r *document.Reader) *apim.VersionSetDetails {
	if r == nil {
		return nil
	}
	return &apim.VersionSetDetails{
		Description:       r.String("description"),
		ID:                r.String("id"),
		Name:              r.String("name"),
		VersionHeaderName: r.String("versionHeaderName"),
		VersioningScheme:  document.ParseField(r, "versioningScheme", apim.ParseVersioningScheme),
		VersionQueryName:  r.String("versionQueryName"),
	}
}

func encodeAuthenticationSettings(s *apim.AuthenticationSettings) *document.Object {
	if s == nil {
		return nil
	}
	return document.New().
		PutObject("oAuth2", encodeOAuth2(s.OAuth2)).
		PutObject("openid", encodeOpenID(s.OpenID))
}

func decodeAuthenticationSettings(r *document.Reader) *apim.AuthenticationSettings {
	if r == nil {
		return nil
	}
	return &apim.AuthenticationSettings{
		OAuth2: decodeOAuth2(r.Object("oAuth2")),
		OpenID: decodeOpenID(r.Object("openid")),
	}
}

func encodeOAuth2(s *apim.OAuth2Settings) *document.Object {
	if s == nil {
		return nil
	}
	return document.New().
		PutString("authorizationServerId", s.AuthorizationServerID).
		PutString("scope", s.Scope)
}

func decodeOAuth2(r *document.Reader) *apim.OAuth2Settings {
	if r == nil {
		return nil
	}
	return &apim.OAuth2Settings{
		AuthorizationServerID: r.String("authorizationServerId"),
		Scope:                 r.String("scope"),
	}
}

func encodeOpenID(s *apim.OpenIDSettings) *document.Object {
	if s == nil {
		return nil
	}
	return document.New().
		PutString("openidProviderId", s.OpenIDProviderID).
		PutArray("bearerTokenSendingMethods", document.TextArray(s.BearerTokenSendingMethods))
}

func decodeOpenID(r *document.Reader) *apim.OpenIDSettings {
	if r == nil {
		return nil
	}
	s := &apim.OpenIDSettings{OpenIDProviderID: r.String("openidProviderId")}
	if items, ok := r.Array("bearerTokenSendingMethods"); ok {
		methods := make([]apim.BearerTokenSendingMethod, 0, len(items))
		for i, item := range items {
			m, ok := r.StringItem("bearerTokenSendingMethods", i, item)
			if !ok {
				return s
			}
			methods = append(methods, apim.BearerTokenSendingMethod(m))
		}
		s.BearerTokenSendingMethods = methods
	}
	return s
}

func encodeContact(c *apim.ContactInformation) *document.Object {
	if c == nil {
		return nil
	}
	return document.New().
		PutString("email", c.Email).
		PutString("name", c.Name).
		PutURL("url", c.URL)
}

func decodeContact(r *document.Reader) *apim.ContactInformation {
	if r == nil {
		return nil
	}
	return &apim.ContactInformation{
		Email: r.String("email"),
		Name:  r.String("name"),
		URL:   r.URL("url"),
	}
}

func encodeLicense(l *apim.LicenseInformation) *document.Object {
	if l == nil {
		return nil
	}
	return document.New().
		PutString("name", l.Name).
		PutURL("url", l.URL)
}

func decodeLicense(r *document.Reader) *apim.LicenseInformation {
	if r == nil {
		return nil
	}
	return &apim.LicenseInformation{
		Name: r.String("name"),
		URL:  r.URL("url"),
	}
}

func encodeSubscriptionKeyParameterNames(n *apim.SubscriptionKeyParameterNames) *document.Object {
	if n == nil {
		return nil
	}
	return document.New().
		PutString("header", n.Header).
		PutString("query", n.Query)
}

func decodeSubscriptionKeyParameterNames(r *document.Reader) *apim.SubscriptionKeyParameterNames {
	if r == nil {
		return nil
	}
	return &apim.SubscriptionKeyParameterNames{
		Header: r.String("header"),
		Query:  r.String("query"),
	}
}

func encodeWsdlSelector(s *apim.WsdlSelector) *document.Object {
	if s == nil {
		return nil
	}
	return document.New().
		PutString("wsdlEndpointName", s.WsdlEndpointName).
		PutString("wsdlServiceName", s.WsdlServiceName)
}

func decodeWsdlSelector(r *document.Reader) *apim.WsdlSelector {
	if r == nil {
		return nil
	}
	return &apim.WsdlSelector{
		WsdlEndpointName: r.String("wsdlEndpointName"),
		WsdlServiceName:  r.String("wsdlServiceName"),
	}
}

// decodeEnumArray decodes every item of the array under key. Any bad item
// fails the whole list, which then decodes as nil.
func decodeEnumArray[T any](r *document.Reader, key string, parse func(string) (T, error)) []T {
	items, ok := r.Array(key)
	if !ok {
		return nil
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		s, ok := r.StringItem(key, i, item)
		if !ok {
			return nil
		}
		v, err := parse(s)
		if err != nil {
			r.ItemError(key, i, err)
			return nil
		}
		out = append(out, v)
	}
	return out
}
