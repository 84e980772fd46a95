package gateway

// GraphQL documents for every operation this storefront performs. The field
// selections mirror what the pages actually render.

const loginMutation = `
  mutation Login($input: LoginInput!) {
    login(input: $input) {
      access_token
      user {
        id
        name
        email
        isAdmin
        createdAt
        updatedAt
      }
    }
  }
`

const registerMutation = `
  mutation Register($input: RegisterUserInput!) {
    register(input: $input) {
      access_token
      user {
        id
        name
        email
        isAdmin
        createdAt
        updatedAt
      }
    }
  }
`

const getProductsQuery = `
  query GetProducts {
    products {
      id
      name
      category
      stock
      description
      prices {
        size
        value
      }
      images {
        id
        url
      }
    }
  }
`

const getProductQuery = `
  query GetProduct($id: String!) {
    product(id: $id) {
      id
      name
      category
      stock
      description
      prices {
        size
        value
      }
      images {
        id
        url
      }
    }
  }
`

const getUserByEmailQuery = `
  query UserByEmail($email: String!) {
    userByEmail(email: $email) {
      id
      name
      email
      isAdmin
      createdAt
      updatedAt
      userDetails {
        id
        address
        city
        pincode
        country
        phone
      }
    }
  }
`

const getUserByIDQuery = `
  query UserById($userId: String!) {
    userById(id: $userId) {
      id
      name
      email
      isAdmin
      createdAt
      updatedAt
      userDetails {
        id
        address
        city
        pincode
        country
        phone
      }
    }
  }
`

const updateUserDetailsMutation = `
  mutation UpdateUserDetails($input: UpdateUserDetailsInput!) {
    updateUserDetails(input: $input) {
      id
      address
      city
      pincode
      country
      phone
    }
  }
`

const getCartQuery = `
  query GetCart($userId: String!) {
    getCart(userId: $userId) {
      id
      items {
        id
        quantity
        size
        product {
          id
          name
          prices {
            size
            value
          }
          images {
            id
            url
          }
        }
      }
      total
    }
  }
`

const addToCartMutation = `
  mutation AddToCart($input: AddToCartInput!) {
    addToCart(input: $input) {
      id
      userId
      items {
        id
        quantity
        size
        product {
          id
          name
          prices {
            size
            value
          }
        }
      }
      total
    }
  }
`

const updateCartItemMutation = `
  mutation UpdateCartItem($userId: String!, $input: UpdateCartItemInput!) {
    updateCartItem(userId: $userId, input: $input) {
      id
      userId
      items {
        id
        quantity
        size
        product {
          id
          name
          prices {
            size
            value
          }
        }
      }
      total
    }
  }
`

const removeCartItemMutation = `
  mutation RemoveCartItem($userId: String!, $cartItemId: String!) {
    removeCartItem(userId: $userId, cartItemId: $cartItemId) {
      id
      userId
      items {
        id
        quantity
        size
        product {
          id
          name
          prices {
            size
            value
          }
        }
      }
      total
    }
  }
`
