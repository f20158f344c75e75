/*
Package keysdk is a Go client for the API key service.

# SDKClient vs Session

SDKClient covers the unauthenticated surface and the API key protected
sample endpoint:

	client := keysdk.NewSDKClient("https://keys.example.com")

	health, err := client.GetReadiness(ctx)

	// Present an API key the way any caller of a protected endpoint would.
	ok, err := client.Ping(ctx, apiKey)

Administrative calls go through a Session built from an admin bearer token
(minted with `apikeyctl token`):

	session, err := client.NewSession(adminToken)

	created, err := session.CreateKey(ctx, keysdk.CreateKeyRequest{Name: "billing"})
	fmt.Println(created.Key) // shown once, never retrievable again

	keys, err := session.ListKeys(ctx, keysdk.ListKeysOptions{UsableOnly: true})

	_, err = session.RevokeKey(ctx, created.APIKey.ID)

# Scopes

Sessions read the scopes from the admin token and refuse calls the token
cannot make before contacting the server:

  - keys:read: list and fetch keys
  - keys:write: create, update, revoke and delete keys

Set SDKClient.CheckScopes to false to leave the decision to the server.

# Errors

Non-2xx responses become *APIError values carrying the HTTP status and the
service's error code:

	var apiErr *keysdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		// no such key
	}
*/
package keysdk
