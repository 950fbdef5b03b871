package codec

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/apiops/internal/apim"
	"github.com/starford/apiops/internal/document"
)

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

func fullAPI(t *testing.T) *apim.APIContent {
	t.Helper()
	return &apim.APIContent{
		APIRevision:            apim.Ptr("2"),
		APIRevisionDescription: apim.Ptr("second"),
		APIType:                apim.Ptr(apim.APITypeHTTP),
		SoapAPIType:            apim.Ptr(apim.SoapAPITypeSoapToRest),
		APIVersion:             apim.Ptr("v1"),
		APIVersionDescription:  apim.Ptr("first version"),
		APIVersionSet: &apim.VersionSetDetails{
			ID:               apim.Ptr("/apiVersionSets/set"),
			Name:             apim.Ptr("set"),
			VersioningScheme: apim.Ptr(apim.VersioningSchemeHeader),
		},
		APIVersionSetID: apim.Ptr(apim.ResourceID("/apiVersionSets/set")),
		AuthenticationSettings: &apim.AuthenticationSettings{
			OAuth2: &apim.OAuth2Settings{AuthorizationServerID: apim.Ptr("auth"), Scope: apim.Ptr("read")},
			OpenID: &apim.OpenIDSettings{
				OpenIDProviderID: apim.Ptr("oidc"),
				BearerTokenSendingMethods: []apim.BearerTokenSendingMethod{
					apim.BearerTokenSendingMethodAuthorizationHeader,
					apim.BearerTokenSendingMethodQuery,
				},
			},
		},
		Contact:     &apim.ContactInformation{Email: apim.Ptr("team@contoso.test"), URL: mustURL(t, "https://contoso.test/team")},
		Description: apim.Ptr("Echoes requests"),
		DisplayName: apim.Ptr("Echo"),
		Format:      apim.Ptr(apim.ContentFormatOpenAPI),
		IsCurrent:   apim.Ptr(true),
		License:     &apim.LicenseInformation{Name: apim.Ptr("MIT")},
		Path:        apim.Ptr("echo"),
		ServiceURL:  mustURL(t, "https://backend.contoso.test/echo"),
		SubscriptionKeyParameterNames: &apim.SubscriptionKeyParameterNames{
			Header: apim.Ptr("X-Key"),
			Query:  apim.Ptr("key"),
		},
		SubscriptionRequired: apim.Ptr(false),
		TermsOfServiceURL:    mustURL(t, "https://contoso.test/terms"),
		Value:                apim.Ptr("https://contoso.test/openapi.json"),
		WsdlSelector:         &apim.WsdlSelector{WsdlServiceName: apim.Ptr("svc"), WsdlEndpointName: apim.Ptr("ep")},
		Protocols:            []apim.Protocol{apim.ProtocolHTTPS, apim.ProtocolWSS},
	}
}

func roundTrip(t *testing.T, c *apim.APIContent) *apim.APIContent {
	t.Helper()
	data, err := document.Marshal(EncodeAPI(c))
	require.NoError(t, err)
	obj, err := document.Parse(data)
	require.NoError(t, err)
	out, err := DecodeAPI(obj, DisallowUnknownFields())
	require.NoError(t, err)
	return out
}

func TestAPIRoundTrip(t *testing.T) {
	in := fullAPI(t)
	assert.Equal(t, in, roundTrip(t, in))
}

func TestAPIRoundTripEmpty(t *testing.T) {
	in := &apim.APIContent{}
	obj := EncodeAPI(in)
	assert.Zero(t, obj.Len())
	assert.Equal(t, in, roundTrip(t, in))
}

func TestEncodeAPIOmitsAbsentFields(t *testing.T) {
	obj := EncodeAPI(&apim.APIContent{DisplayName: apim.Ptr("Echo"), Path: apim.Ptr("echo")})
	assert.Equal(t, []string{"displayName", "path"}, obj.Keys())

	data, err := document.Marshal(obj)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "null")
}

func TestEncodeAPIUsesWireNames(t *testing.T) {
	obj := EncodeAPI(fullAPI(t))
	for _, key := range []string{"type", "apiType", "apiVersionSetId", "serviceUrl", "termsOfServiceUrl", "subscriptionKeyParameterNames"} {
		assert.True(t, obj.Has(key), "missing %s", key)
	}
	v, _ := obj.Get("type")
	assert.Equal(t, "http", v)
}

func TestEmptyProtocolsEncodeAsEmptyArray(t *testing.T) {
	c := (&apim.APIData{Name: apim.MustAPIName("echo")}).ToContent()
	data, err := document.Marshal(EncodeAPI(c))
	require.NoError(t, err)
	assert.JSONEq(t, `{"protocols": []}`, string(data))

	out := roundTrip(t, c)
	require.NotNil(t, out.Protocols)
	assert.Empty(t, out.Protocols)
}

func TestProtocolsDecodeIgnoringCase(t *testing.T) {
	for _, in := range []string{"http", "Http", "HTTP"} {
		obj, err := document.Parse([]byte(`{"protocols": ["` + in + `"]}`))
		require.NoError(t, err)
		c, err := DecodeAPI(obj)
		require.NoError(t, err, in)
		assert.Equal(t, []apim.Protocol{apim.ProtocolHTTP}, c.Protocols, in)
	}
}

func TestUnknownProtocolNamesField(t *testing.T) {
	obj, err := document.Parse([]byte(`{"displayName": "Echo", "protocols": ["ftp"]}`))
	require.NoError(t, err)

	c, err := DecodeAPI(obj)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.True(t, document.IsDecodeError(err))

	var fe *document.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "protocols[0]", fe.Field)
}

func TestDecodeAPIFieldErrors(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		field string
	}{
		{"wrong scalar", `{"displayName": 3}`, "displayName"},
		{"bad bool", `{"isCurrent": "yes"}`, "isCurrent"},
		{"relative url", `{"serviceUrl": "/echo"}`, "serviceUrl"},
		{"bad enum", `{"type": "grpc"}`, "type"},
		{"bad resource id", `{"apiVersionSetId": "set"}`, "apiVersionSetId"},
		{"nested enum", `{"apiVersionSet": {"versioningScheme": "Path"}}`, "apiVersionSet.versioningScheme"},
		{"nested object", `{"contact": "team"}`, "contact"},
		{"array item", `{"authenticationSettings": {"openid": {"bearerTokenSendingMethods": ["query", 1]}}}`, "authenticationSettings.openid.bearerTokenSendingMethods[1]"},
		{"not an array", `{"protocols": "http"}`, "protocols"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj, err := document.Parse([]byte(tc.in))
			require.NoError(t, err)
			_, err = DecodeAPI(obj)
			var fe *document.FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestDecodeAPINullIsAbsent(t *testing.T) {
	obj, err := document.Parse([]byte(`{"displayName": null, "contact": null, "protocols": null}`))
	require.NoError(t, err)
	c, err := DecodeAPI(obj, DisallowUnknownFields())
	require.NoError(t, err)
	assert.Nil(t, c.DisplayName)
	assert.Nil(t, c.Contact)
	assert.Nil(t, c.Protocols)
}

func TestBearerTokenMethodsAreOpen(t *testing.T) {
	obj, err := document.Parse([]byte(`{"authenticationSettings": {"openid": {"bearerTokenSendingMethods": ["cookie"]}}}`))
	require.NoError(t, err)
	c, err := DecodeAPI(obj)
	require.NoError(t, err)
	assert.Equal(t, []apim.BearerTokenSendingMethod{"cookie"}, c.AuthenticationSettings.OpenID.BearerTokenSendingMethods)
}

func TestUnknownKeys(t *testing.T) {
	obj, err := document.Parse([]byte(`{"displayName": "Echo", "owner": "team", "contact": {"name": "n", "phone": "1"}}`))
	require.NoError(t, err)

	c, err := DecodeAPI(obj)
	require.NoError(t, err)
	assert.Equal(t, "Echo", *c.DisplayName)

	_, err = DecodeAPI(obj, DisallowUnknownFields())
	var fe *document.FieldError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.Equal(t, ".", fe.Field)
	assert.Contains(t, fe.Error(), "owner")

	_, err = DecodeAPI(obj, WithStrict(false))
	assert.NoError(t, err)
}

func TestVersionSetRoundTrip(t *testing.T) {
	in := &apim.VersionSetContent{
		DisplayName:      apim.Ptr("Echo versions"),
		Description:      apim.Ptr("all of them"),
		VersioningScheme: apim.Ptr(apim.VersioningSchemeQuery),
		VersionQueryName: apim.Ptr("api-version"),
	}
	obj := VersionSet.Encode(in)
	assert.Equal(t, []string{"displayName", "description", "versioningScheme", "versionQueryName"}, obj.Keys())

	data, err := document.Marshal(obj)
	require.NoError(t, err)
	parsed, err := document.Parse(data)
	require.NoError(t, err)
	out, err := VersionSet.Decode(parsed, DisallowUnknownFields())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestVersionSetSchemeIgnoresCase(t *testing.T) {
	obj, err := document.Parse([]byte(`{"versioningScheme": "header"}`))
	require.NoError(t, err)
	out, err := DecodeVersionSet(obj)
	require.NoError(t, err)
	assert.Equal(t, apim.VersioningSchemeHeader, *out.VersioningScheme)
}

func TestCodecVariables(t *testing.T) {
	in := fullAPI(t)
	obj := API.Encode(in)
	out, err := API.Decode(obj)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// Each variation removes or empties one part of fullAPI; the round trip is
// checked for every combination of them.
var apiVariations = []func(c *apim.APIContent){
	func(c *apim.APIContent) { c.APIVersionSet = nil },
	func(c *apim.APIContent) { c.AuthenticationSettings.OAuth2 = nil },
	func(c *apim.APIContent) { c.AuthenticationSettings.OpenID.BearerTokenSendingMethods = nil },
	func(c *apim.APIContent) {
		c.AuthenticationSettings.OpenID.BearerTokenSendingMethods = []apim.BearerTokenSendingMethod{}
	},
	func(c *apim.APIContent) { c.Contact = &apim.ContactInformation{Name: apim.Ptr("only name")} },
	func(c *apim.APIContent) { c.License = nil },
	func(c *apim.APIContent) { c.SubscriptionKeyParameterNames = nil },
	func(c *apim.APIContent) { c.WsdlSelector = &apim.WsdlSelector{} },
	func(c *apim.APIContent) { c.Protocols = []apim.Protocol{} },
	func(c *apim.APIContent) {
		c.DisplayName, c.Description, c.ServiceURL, c.IsCurrent = nil, nil, nil, nil
	},
	func(c *apim.APIContent) { c.AuthenticationSettings = nil },
}

func TestAPIRoundTripVariations(t *testing.T) {
	for mask := range 1 << len(apiVariations) {
		in := fullAPI(t)
		// The last variation drops the settings the earlier ones edit.
		for i, vary := range apiVariations {
			if mask&(1<<i) != 0 {
				vary(in)
			}
		}
		out := roundTrip(t, in)
		if !assert.Equal(t, in, out, "variation mask %b", mask) {
			return
		}
	}
}

func TestVersionSetRoundTripVariations(t *testing.T) {
	full := apim.VersionSetContent{
		DisplayName:       apim.Ptr("Echo versions"),
		Description:       apim.Ptr("all of them"),
		VersioningScheme:  apim.Ptr(apim.VersioningSchemeHeader),
		VersionQueryName:  apim.Ptr("api-version"),
		VersionHeaderName: apim.Ptr("Api-Version"),
	}
	drop := []func(c *apim.VersionSetContent){
		func(c *apim.VersionSetContent) { c.DisplayName = nil },
		func(c *apim.VersionSetContent) { c.Description = nil },
		func(c *apim.VersionSetContent) { c.VersioningScheme = nil },
		func(c *apim.VersionSetContent) { c.VersionQueryName = nil },
		func(c *apim.VersionSetContent) { c.VersionHeaderName = nil },
	}
	for mask := range 1 << len(drop) {
		in := full
		for i, fn := range drop {
			if mask&(1<<i) != 0 {
				fn(&in)
			}
		}
		data, err := document.Marshal(EncodeVersionSet(&in))
		require.NoError(t, err)
		obj, err := document.Parse(data)
		require.NoError(t, err)
		out, err := DecodeVersionSet(obj, DisallowUnknownFields())
		require.NoError(t, err)
		assert.Equal(t, &in, out, "variation mask %b", mask)
	}
}
